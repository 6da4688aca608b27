package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(Translations.WithLabelValues("seq2seq", "fr_XX", OutcomeOK))
	Translations.WithLabelValues("seq2seq", "fr_XX", OutcomeOK).Inc()
	after := testutil.ToFloat64(Translations.WithLabelValues("seq2seq", "fr_XX", OutcomeOK))

	if after != before+1 {
		t.Errorf("translations counter = %v, want %v", after, before+1)
	}
}

func TestBreakerStateGauge(t *testing.T) {
	BreakerState.WithLabelValues("test").Set(2)
	if got := testutil.ToFloat64(BreakerState.WithLabelValues("test")); got != 2 {
		t.Errorf("breaker gauge = %v, want 2", got)
	}
}

func TestMetricNamesLint(t *testing.T) {
	problems, err := testutil.CollectAndLint(CombineDuration)
	if err != nil {
		t.Fatalf("CollectAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("lint %s: %s", p.Metric, p.Text)
	}
}
