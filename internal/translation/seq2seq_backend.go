package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"codeberg.org/snonux/babel/internal/logger"
	"codeberg.org/snonux/babel/internal/metrics"
)

// maxResponseSize bounds the body read from the inference server.
const maxResponseSize = 1 << 20

// Seq2SeqBackend sends requests to an inference server that hosts the
// combined checkpoint and runs beam search with the forced BOS token.
type Seq2SeqBackend struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

type generateRequest struct {
	ID         string             `json:"id"`
	ModelDir   string             `json:"model_dir"`
	Checkpoint string             `json:"checkpoint"`
	Inputs     string             `json:"inputs"`
	SrcLang    string             `json:"src_lang"`
	TgtLang    string             `json:"tgt_lang"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	ForcedBOSTokenID int `json:"forced_bos_token_id"`
	MaxLength        int `json:"max_length,omitempty"`
	NumBeams         int `json:"num_beams,omitempty"`
}

type generateResponse struct {
	TranslationText string `json:"translation_text"`
	Error           string `json:"error"`
}

// NewSeq2SeqBackend creates a backend for the inference server at
// config.Seq2SeqURL.
func NewSeq2SeqBackend(config *BackendConfig) (*Seq2SeqBackend, error) {
	if config.Seq2SeqURL == "" {
		return nil, fmt.Errorf("seq2seq server URL is required")
	}

	failures := config.BreakerFailures
	if failures == 0 {
		failures = 3
	}

	b := &Seq2SeqBackend{
		baseURL: strings.TrimRight(config.Seq2SeqURL, "/"),
		client:  &http.Client{Timeout: config.Seq2SeqTimeout},
	}

	b.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "seq2seq",
		Timeout: config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			logger.Log.Warn("Backend circuit breaker changed state",
				"backend", name, "from", from.String(), "to", to.String())
		},
		// A cancelled request says nothing about the server's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	metrics.BreakerState.WithLabelValues("seq2seq").Set(float64(gobreaker.StateClosed))

	return b, nil
}

// Generate posts the request to <url>/generate.
func (b *Seq2SeqBackend) Generate(ctx context.Context, req *Request) (string, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	body, err := json.Marshal(generateRequest{
		ID:         id,
		ModelDir:   req.ModelDir,
		Checkpoint: req.Checkpoint,
		Inputs:     req.Text,
		SrcLang:    req.SourceLang,
		TgtLang:    req.TargetLang,
		Parameters: generateParameters{
			ForcedBOSTokenID: req.ForcedBOSTokenID,
			MaxLength:        req.MaxLength,
			NumBeams:         req.NumBeams,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode generate request: %w", err)
	}

	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.post(ctx, id, body)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("seq2seq server unavailable: %w", err)
		}
		return "", err
	}

	return result.(string), nil
}

func (b *Seq2SeqBackend) post(ctx context.Context, id string, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", id)

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("seq2seq request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read seq2seq response: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("seq2seq server returned %s", resp.Status)
		}
		return "", fmt.Errorf("failed to decode seq2seq response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return "", fmt.Errorf("seq2seq server returned %s: %s", resp.Status, out.Error)
		}
		return "", fmt.Errorf("seq2seq server returned %s", resp.Status)
	}

	text := strings.TrimSpace(out.TranslationText)
	if text == "" {
		return "", fmt.Errorf("seq2seq server returned an empty translation")
	}
	return text, nil
}

// Name returns the backend name
func (b *Seq2SeqBackend) Name() string {
	return "seq2seq"
}

// IsAvailable checks the server's /health endpoint.
func (b *Seq2SeqBackend) IsAvailable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("seq2seq server not reachable at %s: %w", b.baseURL, err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("seq2seq server health check returned %s", resp.Status)
	}
	return nil
}

// State returns the circuit breaker state.
func (b *Seq2SeqBackend) State() gobreaker.State {
	return b.breaker.State()
}
