package model

import (
	"context"
	"sync"
	"time"

	"codeberg.org/snonux/babel/internal/logger"
	"codeberg.org/snonux/babel/internal/metrics"
)

// LoadFunc produces the model. It runs at most once per Lazy.
type LoadFunc func(ctx context.Context) (*Model, error)

// Lazy is the process-wide model holder. The first Get runs the load
// function; every later Get, concurrent or not, returns the same model or
// the same error. A failed load is not retried.
type Lazy struct {
	load LoadFunc

	once  sync.Once
	done  chan struct{}
	model *Model
	err   error
}

// NewLazy creates a holder that will run load on first use.
func NewLazy(load LoadFunc) *Lazy {
	return &Lazy{
		load: load,
		done: make(chan struct{}),
	}
}

// Get returns the model, loading it on the first call. The context of the
// first caller is the one passed to the load function; later callers only
// use theirs to stop waiting.
func (l *Lazy) Get(ctx context.Context) (*Model, error) {
	l.once.Do(func() { go l.run(ctx) })

	select {
	case <-l.done:
		return l.model, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Lazy) run(ctx context.Context) {
	defer close(l.done)

	start := time.Now()
	l.model, l.err = l.load(ctx)
	if l.err != nil {
		metrics.ModelLoads.WithLabelValues(metrics.OutcomeError).Inc()
		logger.Log.Error("Model could not be loaded", "error", l.err)
		return
	}

	metrics.ModelLoads.WithLabelValues(metrics.OutcomeOK).Inc()
	logger.Log.Info("Model loaded", "dir", l.model.Dir, "duration", time.Since(start).String())
}

// Loaded reports whether the load has finished, successfully or not.
func (l *Lazy) Loaded() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}
