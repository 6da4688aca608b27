package processor

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/babel/internal/checkpoint"
	"codeberg.org/snonux/babel/internal/config"
	"codeberg.org/snonux/babel/internal/gui"
	"codeberg.org/snonux/babel/internal/logger"
	"codeberg.org/snonux/babel/internal/model"
	"codeberg.org/snonux/babel/internal/translation"
)

// Engine owns the process-wide model. The checkpoint is combined before
// the model is loaded, both inside the single lazy load.
type Engine struct {
	config  *config.Config
	backend translation.Backend
	lazy    *model.Lazy

	mu         sync.Mutex
	onProgress func(checkpoint.Progress)
	translator *translation.Translator
}

var _ gui.Engine = (*Engine)(nil)

// NewEngine creates an engine; nothing is read from disk until Prepare or
// Translate is called.
func NewEngine(cfg *config.Config, backend translation.Backend) *Engine {
	e := &Engine{
		config:  cfg,
		backend: backend,
	}
	e.lazy = model.NewLazy(e.load)
	return e
}

func (e *Engine) load(ctx context.Context) (*model.Model, error) {
	r := e.config.Reassembler()
	r.OnProgress = e.progress

	checkpointPath, err := r.Combine(ctx)
	if err != nil {
		return nil, err
	}

	m, err := model.LoadWithTokenizer(e.config.ModelDir(), e.config.TokenizerPath(), checkpointPath)
	if err != nil {
		return nil, err
	}

	// An unreachable backend does not fail the load; the first
	// translation reports the error to the user.
	if err := e.backend.IsAvailable(); err != nil {
		logger.Log.Warn("Translation backend not reachable", "backend", e.backend.Name(), "error", err)
	}
	return m, nil
}

func (e *Engine) progress(p checkpoint.Progress) {
	e.mu.Lock()
	fn := e.onProgress
	e.mu.Unlock()

	if fn != nil {
		fn(p)
	}
}

// Prepare combines and loads the model if that has not happened yet.
// onProgress receives reassembly progress when this call is the one that
// combines the fragments; it may be nil.
func (e *Engine) Prepare(ctx context.Context, onProgress func(checkpoint.Progress)) error {
	e.mu.Lock()
	if onProgress != nil {
		e.onProgress = onProgress
	}
	e.mu.Unlock()

	_, err := e.Translator(ctx)
	return err
}

// Translator returns the translator bound to the loaded model.
func (e *Engine) Translator(ctx context.Context) (*translation.Translator, error) {
	m, err := e.lazy.Get(ctx)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.translator == nil {
		e.translator = translation.NewTranslator(m, e.backend)
		logger.Log.Info("Translator ready",
			"backend", e.backend.Name(),
			"languages", m.Tokenizer.Languages(),
			"checkpoint", m.Checkpoint.Path)
	}
	return e.translator, nil
}

// Translate translates text into target with the loaded model.
func (e *Engine) Translate(ctx context.Context, text, target string) (string, error) {
	t, err := e.Translator(ctx)
	if err != nil {
		return "", fmt.Errorf("model not available: %w", err)
	}
	return t.Translate(ctx, text, target)
}

// Loaded reports whether the model load has finished.
func (e *Engine) Loaded() bool {
	return e.lazy.Loaded()
}

// BackendName returns the name of the translation backend
func (e *Engine) BackendName() string {
	return e.backend.Name()
}
