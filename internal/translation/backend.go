package translation

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/snonux/babel/internal/logger"
)

// Backend runs one generation call for a prepared request.
type Backend interface {
	// Generate returns the decoded translation of req.Text
	Generate(ctx context.Context, req *Request) (string, error)

	// Name returns the backend name
	Name() string

	// IsAvailable checks if the backend is configured and reachable
	IsAvailable() error
}

// Request is a single translation of Text from SourceLang to TargetLang.
// ForcedBOSTokenID is the token the decoder must start with so that it
// generates TargetLang.
type Request struct {
	ID               string
	ModelDir         string
	Checkpoint       string
	Text             string
	SourceLang       string
	TargetLang       string
	TargetName       string // display name, used by the prompt-based backends
	ForcedBOSTokenID int
	MaxLength        int
	NumBeams         int
}

// BackendConfig holds the settings of every backend type.
type BackendConfig struct {
	Type     string // "seq2seq", "openai" or "gemini"
	Fallback string // optional backend type tried when Type fails

	// seq2seq inference server settings
	Seq2SeqURL      string
	Seq2SeqTimeout  time.Duration
	BreakerFailures uint32        // consecutive failures that open the breaker
	BreakerTimeout  time.Duration // time the breaker stays open

	// OpenAI-compatible settings
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	// Gemini settings
	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string
}

// DefaultBackendConfig returns the default backend configuration
func DefaultBackendConfig() *BackendConfig {
	return &BackendConfig{
		Type:            "seq2seq",
		Seq2SeqURL:      "http://127.0.0.1:8089",
		Seq2SeqTimeout:  120 * time.Second,
		BreakerFailures: 3,
		BreakerTimeout:  30 * time.Second,
		OpenAIModel:     "gpt-4o-mini",
		GeminiModel:     "gemini-2.0-flash",
	}
}

// NewBackend creates the configured backend, wrapped with the fallback
// backend when one is set.
func NewBackend(config *BackendConfig) (Backend, error) {
	if config == nil {
		config = DefaultBackendConfig()
	}

	primary, err := newBackend(config.Type, config)
	if err != nil {
		return nil, err
	}

	if config.Fallback == "" || config.Fallback == config.Type {
		return primary, nil
	}

	fallback, err := newBackend(config.Fallback, config)
	if err != nil {
		return nil, fmt.Errorf("fallback backend: %w", err)
	}
	return NewBackendWithFallback(primary, fallback), nil
}

func newBackend(kind string, config *BackendConfig) (Backend, error) {
	switch kind {
	case "", "seq2seq":
		b, err := NewSeq2SeqBackend(config)
		if err != nil {
			return nil, err
		}
		return b, nil

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIBackend(config)

	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiBackend(context.Background(), config)

	default:
		return nil, fmt.Errorf("unknown translation backend: %s", kind)
	}
}

// BackendWithFallback wraps a primary backend with a fallback option
type BackendWithFallback struct {
	primary  Backend
	fallback Backend
}

// NewBackendWithFallback creates a backend that falls back to secondary if primary fails
func NewBackendWithFallback(primary, fallback Backend) Backend {
	return &BackendWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// Generate tries the primary backend first, falls back to secondary on error
func (b *BackendWithFallback) Generate(ctx context.Context, req *Request) (string, error) {
	text, err := b.primary.Generate(ctx, req)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	logger.Log.Warn("Primary backend failed, falling back",
		"primary", b.primary.Name(),
		"fallback", b.fallback.Name(),
		"error", err)

	return b.fallback.Generate(ctx, req)
}

// Name returns the backend name
func (b *BackendWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", b.primary.Name(), b.fallback.Name())
}

// IsAvailable checks if at least one backend is available
func (b *BackendWithFallback) IsAvailable() error {
	primaryErr := b.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := b.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both backends unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
