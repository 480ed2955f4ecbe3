// Package promexport serves run metrics over a Prometheus scrape endpoint,
// for watching long runs from an existing dashboard stack.
package promexport

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/richardlee159/rload/internal/metrics"
)

// Exporter registers and serves the run's Prometheus metrics.
type Exporter struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
	srv      *http.Server
}

func New() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rload_requests_total",
				Help: "Completed requests by outcome classification",
			},
			[]string{"classification"},
		),
		latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rload_latency_ms",
				Help:    "Request latency in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 20), // 1ms to ~1000s
			},
		),
	}
	e.registry.MustRegister(e.requests, e.latency)
	return e
}

// Observe records one outcome; safe for use as the aggregator's per-outcome
// hook.
func (e *Exporter) Observe(o metrics.Outcome) {
	e.requests.WithLabelValues(o.Class.String()).Inc()
	e.latency.Observe(float64(o.Latency()) / float64(time.Millisecond))
}

// Start serves /metrics on addr in the background.
func (e *Exporter) Start(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	e.srv = &http.Server{Addr: addr, Handler: mux}
	go func() {
		_ = e.srv.ListenAndServe()
	}()
}

// Stop shuts the scrape endpoint down.
func (e *Exporter) Stop(ctx context.Context) error {
	if e.srv == nil {
		return nil
	}
	return e.srv.Shutdown(ctx)
}

// Registry exposes the underlying registry, mainly for tests.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}
