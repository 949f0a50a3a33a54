package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("expected re-registration to be ignored, got %v", err)
	}
}

func TestObserveClassificationNormalizesSource(t *testing.T) {
	before := testutil.ToFloat64(classificationsTotal.WithLabelValues(SourceLocal, "OTHER", "HIGH"))
	ObserveClassification("bogus", "OTHER", "HIGH")
	after := testutil.ToFloat64(classificationsTotal.WithLabelValues(SourceLocal, "OTHER", "HIGH"))
	if after != before+1 {
		t.Fatalf("expected unknown source to count as local, got %v -> %v", before, after)
	}
}

func TestObserveFallback(t *testing.T) {
	before := testutil.ToFloat64(analysisFallbacksTotal)
	ObserveFallback()
	if got := testutil.ToFloat64(analysisFallbacksTotal); got != before+1 {
		t.Fatalf("expected fallback counter to advance, got %v", got)
	}
}
