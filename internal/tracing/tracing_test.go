package tracing

import (
	"context"
	"strings"
	"testing"

	"github.com/richardlee159/rload/internal/config"
)

func TestInitDisabledIsNoop(t *testing.T) {
	p, err := Init(context.Background(), config.TracingConfig{})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if p.Tracer() == nil {
		t.Fatal("disabled provider must still hand out a tracer")
	}

	// The no-op tracer must be usable end to end.
	_, span := StartRequestSpan(context.Background(), p.Tracer(), "http://t/hot/matmul")
	EndSpan(span, nil)

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestInitWithoutEndpointStaysDisabled(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	p, err := Init(context.Background(), config.TracingConfig{Enable: true})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestInitRejectsUnknownProtocol(t *testing.T) {
	_, err := Init(context.Background(), config.TracingConfig{
		Enable:   true,
		Endpoint: "collector:4317",
		Protocol: "carrier-pigeon",
	})
	if err == nil {
		t.Fatal("unknown protocol should be rejected")
	}
	if !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Fatalf("err = %v", err)
	}
}

func TestInitRejectsBadSampleRate(t *testing.T) {
	_, err := Init(context.Background(), config.TracingConfig{
		Enable:     true,
		Endpoint:   "collector:4317",
		Protocol:   "http",
		SampleRate: 1.5,
	})
	if err == nil {
		t.Fatal("sample rate above 1 should be rejected")
	}
}

func TestNilProviderIsSafe(t *testing.T) {
	var p *Provider
	if p.Tracer() == nil {
		t.Fatal("nil provider must return the no-op tracer")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown on nil provider: %v", err)
	}
}
