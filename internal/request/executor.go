// Package request executes and classifies single requests: one tick in, one
// outcome out.
package request

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/richardlee159/rload/internal/metrics"
	"github.com/richardlee159/rload/internal/tracing"
	"github.com/richardlee159/rload/internal/workload"
)

// Builder synthesizes a ready-to-send request for a target URL. The default
// builder posts the workload body; a scripted builder may replace it. It is
// invoked once per tick by the task owning that tick, never by the
// dispatcher thread.
type Builder interface {
	Build(ctx context.Context, client *http.Client, target string) (*http.Request, error)
}

// Executor builds, sends, times and classifies exactly one request per
// Execute call, emitting exactly one outcome.
type Executor struct {
	Client   *http.Client
	Selector *Selector
	Workload workload.Provider
	Builder  Builder           // optional; defaults to the workload body POST
	Tracer   trace.Tracer      // optional
	OnError  func(error)       // optional failure hook (stderr logging)
}

// Execute issues one request and sends its outcome. The send blocks when the
// aggregation channel is full; that bounded channel is the backpressure
// between request tasks and the aggregator.
func (e *Executor) Execute(ctx context.Context, out chan<- metrics.Outcome) {
	target := e.Selector.Next(e.Workload.Path())

	spanCtx := ctx
	var span trace.Span
	if e.Tracer != nil {
		spanCtx, span = tracing.StartRequestSpan(ctx, e.Tracer, target)
	}

	o := e.send(spanCtx, target)

	if span != nil {
		var err error
		if o.Failed() {
			err = errors.New(o.Class.String())
		}
		tracing.EndSpan(span, err,
			attribute.String("rload.classification", o.Class.String()),
			attribute.Int("http.status_code", o.Status),
		)
	}
	if o.Failed() && e.OnError != nil {
		e.OnError(errors.New(o.Class.String() + " against " + target))
	}

	out <- o
}

func (e *Executor) send(ctx context.Context, target string) metrics.Outcome {
	o := metrics.Outcome{Target: target}

	req, err := e.buildRequest(ctx, target)
	if err != nil {
		now := time.Now()
		o.Start, o.End = now, now
		o.Class = metrics.ClassOtherError
		return o
	}
	if e.Tracer != nil {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}

	o.Start = time.Now()
	resp, err := e.Client.Do(req)
	o.End = time.Now()
	if err != nil {
		o.Class = classify(err)
		return o
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		o.Class = metrics.ClassStatusError
		o.Status = resp.StatusCode
		return o
	}
	o.Status = resp.StatusCode

	want, verifiable := e.Workload.Checksum()
	if !verifiable {
		_, _ = io.Copy(io.Discard, resp.Body)
		o.Class = metrics.ClassSuccess
		return o
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		o.Class = classify(err)
		return o
	}
	if len(payload) < 8 || binary.BigEndian.Uint64(payload[:8]) != want {
		o.Class = metrics.ClassIntegrity
		return o
	}
	o.Class = metrics.ClassSuccess
	o.Verified = true
	return o
}

func (e *Executor) buildRequest(ctx context.Context, target string) (*http.Request, error) {
	if e.Builder != nil {
		return e.Builder.Build(ctx, e.Client, target)
	}
	return http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(e.Workload.Body()))
}

// classify maps a transport error onto the outcome taxonomy. Timeouts are
// kept apart from connection failures, and both apart from status errors.
func classify(err error) metrics.Classification {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return metrics.ClassTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return metrics.ClassTimeout
	}
	var op *net.OpError
	if errors.As(err, &op) && op.Op == "dial" {
		return metrics.ClassConnectError
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) {
		return metrics.ClassConnectError
	}
	return metrics.ClassOtherError
}
