// Package metrics holds the Prometheus instruments of the translator.
// They are registered on the default registry and only exposed when the
// metrics address is configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CombineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "babel_checkpoint_combine_runs_total",
		Help: "Checkpoint reassembly runs by outcome",
	}, []string{"outcome"})

	CombineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "babel_checkpoint_combine_duration_seconds",
		Help:    "Time spent combining checkpoint fragments",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
	})

	FragmentsCombined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "babel_checkpoint_fragments_combined_total",
		Help: "Fragments appended to the combined checkpoint",
	})

	BytesCombined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "babel_checkpoint_bytes_combined_total",
		Help: "Bytes appended to the combined checkpoint",
	})

	ModelLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "babel_model_loads_total",
		Help: "Model load attempts by outcome",
	}, []string{"outcome"})

	Translations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "babel_translations_total",
		Help: "Translation requests by backend, target language and outcome",
	}, []string{"backend", "target", "outcome"})

	TranslationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "babel_translation_duration_seconds",
		Help:    "Latency of a single generation call",
		Buckets: prometheus.DefBuckets,
	}, []string{"backend"})

	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "babel_backend_breaker_state",
		Help: "Circuit breaker state per backend (0 closed, 1 half-open, 2 open)",
	}, []string{"backend"})
)

// Outcome labels.
const (
	OutcomeOK     = "ok"
	OutcomeError  = "error"
	OutcomeCached = "cached"
)
