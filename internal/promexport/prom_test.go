package promexport

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/richardlee159/rload/internal/metrics"
)

func outcome(class metrics.Classification, latency time.Duration) metrics.Outcome {
	start := time.Unix(0, 0)
	return metrics.Outcome{Start: start, End: start.Add(latency), Class: class}
}

func TestObserveCountsByClassification(t *testing.T) {
	e := New()
	e.Observe(outcome(metrics.ClassSuccess, 10*time.Millisecond))
	e.Observe(outcome(metrics.ClassSuccess, 20*time.Millisecond))
	e.Observe(outcome(metrics.ClassTimeout, time.Second))
	e.Observe(outcome(metrics.ClassIntegrity, 5*time.Millisecond))

	if got := testutil.ToFloat64(e.requests.WithLabelValues("success")); got != 2 {
		t.Errorf("success counter = %g, want 2", got)
	}
	if got := testutil.ToFloat64(e.requests.WithLabelValues("timeout")); got != 1 {
		t.Errorf("timeout counter = %g, want 1", got)
	}
	if got := testutil.ToFloat64(e.requests.WithLabelValues("integrity")); got != 1 {
		t.Errorf("integrity counter = %g, want 1", got)
	}
}

func TestMetricsAreRegistered(t *testing.T) {
	e := New()
	e.Observe(outcome(metrics.ClassSuccess, 10*time.Millisecond))

	families, err := e.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	if !names["rload_requests_total"] || !names["rload_latency_ms"] {
		t.Fatalf("expected both metrics registered, got %v", names)
	}
}
