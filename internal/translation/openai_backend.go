package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// defaultMaxTokens caps completions when the model has no max_length.
const defaultMaxTokens = 512

// OpenAIBackend translates with a chat completion against OpenAI or any
// OpenAI-compatible server.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend creates a new OpenAI backend
func NewOpenAIBackend(config *BackendConfig) (Backend, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientConfig.BaseURL = config.OpenAIBaseURL
	}

	model := config.OpenAIModel
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIBackend{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Generate asks the chat model for the translation only.
func (b *OpenAIBackend) Generate(ctx context.Context, req *Request) (string, error) {
	maxTokens := req.MaxLength
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: translationPrompt(req),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return text, nil
}

// Name returns the backend name
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// IsAvailable checks if the backend is properly configured
func (b *OpenAIBackend) IsAvailable() error {
	if b.client == nil {
		return fmt.Errorf("OpenAI client not initialized")
	}
	return nil
}

// translationPrompt is shared by the prompt-based backends.
func translationPrompt(req *Request) string {
	target := req.TargetName
	if target == "" {
		target = req.TargetLang
	}
	return fmt.Sprintf("Translate the following English text to %s. Respond with only the %s translation, nothing else.\n\n%s",
		target, target, req.Text)
}
