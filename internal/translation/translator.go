package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"codeberg.org/snonux/babel/internal/logger"
	"codeberg.org/snonux/babel/internal/metrics"
	"codeberg.org/snonux/babel/internal/model"
)

// ErrEmptyText is returned when there is nothing to translate.
var ErrEmptyText = errors.New("please enter some text to translate")

// Translator translates English text with a loaded model and a backend
type Translator struct {
	model   *model.Model
	backend Backend
	cache   *TranslationCache
}

// NewTranslator creates a new translator instance
func NewTranslator(m *model.Model, backend Backend) *Translator {
	return &Translator{
		model:   m,
		backend: backend,
		cache:   NewTranslationCache(),
	}
}

// Translate translates text into target, given as a display name or a
// language code. Each call makes at most one backend call.
func (t *Translator) Translate(ctx context.Context, text, target string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}

	lang, err := LookupLanguage(target)
	if err != nil {
		return "", err
	}

	if cached, ok := t.cache.Get(lang.Code, text); ok {
		metrics.Translations.WithLabelValues(t.backend.Name(), lang.Code, metrics.OutcomeCached).Inc()
		return cached, nil
	}

	req, err := t.newRequest(text, lang)
	if err != nil {
		return "", err
	}

	logger.Log.Debug("Translating",
		"id", req.ID,
		"backend", t.backend.Name(),
		"target", lang.Code,
		"forced_bos_token_id", req.ForcedBOSTokenID,
		"chars", len(text))

	start := time.Now()
	result, err := t.backend.Generate(ctx, req)
	metrics.TranslationDuration.WithLabelValues(t.backend.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Translations.WithLabelValues(t.backend.Name(), lang.Code, metrics.OutcomeError).Inc()
		return "", fmt.Errorf("translation to %s failed: %w", lang.Name, err)
	}

	result = strings.TrimSpace(result)
	metrics.Translations.WithLabelValues(t.backend.Name(), lang.Code, metrics.OutcomeOK).Inc()
	t.cache.Add(lang.Code, text, result)

	return result, nil
}

func (t *Translator) newRequest(text string, lang Language) (*Request, error) {
	if _, err := t.model.LangID(SourceLang); err != nil {
		return nil, fmt.Errorf("source language: %w", err)
	}
	forcedBOS, err := t.model.LangID(lang.Code)
	if err != nil {
		return nil, fmt.Errorf("target language %s: %w", lang.Name, err)
	}

	req := &Request{
		ID:               uuid.NewString(),
		ModelDir:         t.model.Dir,
		Text:             text,
		SourceLang:       SourceLang,
		TargetLang:       lang.Code,
		TargetName:       lang.Name,
		ForcedBOSTokenID: forcedBOS,
	}
	if t.model.Checkpoint != nil {
		req.Checkpoint = t.model.Checkpoint.Path
	}
	if t.model.Generation != nil {
		req.MaxLength = t.model.Generation.MaxLength
		req.NumBeams = t.model.Generation.NumBeams
	}
	return req, nil
}

// Cache returns the translator's cache
func (t *Translator) Cache() *TranslationCache {
	return t.cache
}
