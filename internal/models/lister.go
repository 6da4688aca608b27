package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister handles listing available models of an OpenAI-compatible API
type Lister struct {
	apiKey string
	client *openai.Client
}

// NewLister creates a new model lister. An empty baseURL means the
// OpenAI API.
func NewLister(apiKey, baseURL string) *Lister {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Lister{
		apiKey: apiKey,
		client: openai.NewClientWithConfig(config),
	}
}

// ListAvailableModels writes the translation-capable models to w, then
// the number of other models.
func (l *Lister) ListAvailableModels(ctx context.Context, w io.Writer) error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .babel.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	chatModels, other := Categorize(models.Models)

	fmt.Fprintln(w, "Chat/Translation Models (for --backend openai):")
	if len(chatModels) == 0 {
		fmt.Fprintln(w, "  No chat models found")
	}
	for _, model := range chatModels {
		fmt.Fprintf(w, "  %s\n", model)
	}
	if other > 0 {
		fmt.Fprintf(w, "  ... and %d other models\n", other)
	}

	return nil
}

// nonChat marks model IDs that cannot translate text.
var nonChat = []string{"tts", "whisper", "dall-e", "embedding", "moderation", "audio", "image", "realtime", "transcribe"}

// Categorize returns the sorted IDs of chat-capable models and the number
// of remaining models.
func Categorize(models []openai.Model) ([]string, int) {
	var chat []string
	other := 0

	for _, model := range models {
		if isChatModel(model.ID) {
			chat = append(chat, model.ID)
		} else {
			other++
		}
	}

	sort.Strings(chat)
	return chat, other
}

func isChatModel(id string) bool {
	lower := strings.ToLower(id)
	for _, marker := range nonChat {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
