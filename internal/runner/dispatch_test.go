package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/richardlee159/rload/internal/schedule"
)

func TestDispatcherEmitsEveryScheduledTick(t *testing.T) {
	d := &dispatcher{
		sched:  schedule.Schedule{0, time.Millisecond, 2 * time.Millisecond},
		slack:  100 * time.Millisecond,
		strict: true,
	}
	ticks := make(chan struct{})
	errCh := make(chan error, 1)
	go func() { errCh <- d.run(context.Background(), ticks) }()

	count := 0
	for range ticks {
		count++
	}
	if err := <-errCh; err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 ticks, got %d", count)
	}
}

func TestDispatcherAbortsWhenBehindPastSlack(t *testing.T) {
	d := &dispatcher{
		sched:  schedule.Schedule{0, time.Millisecond, 2 * time.Millisecond},
		slack:  time.Millisecond,
		strict: true,
	}
	ticks := make(chan struct{})
	errCh := make(chan error, 1)
	go func() { errCh <- d.run(context.Background(), ticks) }()

	// Stall each tick long enough that a later deadline is missed by far
	// more than the slack budget.
	count := 0
	for range ticks {
		count++
		time.Sleep(50 * time.Millisecond)
	}
	err := <-errCh
	if !errors.Is(err, ErrOverloaded) {
		t.Fatalf("expected overload, got %v", err)
	}
	var violation *ScheduleViolation
	if !errors.As(err, &violation) {
		t.Fatalf("expected a schedule violation, got %T", err)
	}
	if violation.Index != 2 {
		t.Fatalf("violation should name offset 2, got %d", violation.Index)
	}
	if count != 2 {
		t.Fatalf("expected 2 ticks before the abort, got %d", count)
	}
}

func TestDispatcherToleratesLatenessWhenNotStrict(t *testing.T) {
	d := &dispatcher{
		sched:  schedule.Schedule{0, time.Millisecond},
		slack:  time.Millisecond,
		strict: false,
	}
	ticks := make(chan struct{})
	errCh := make(chan error, 1)
	go func() { errCh <- d.run(context.Background(), ticks) }()

	count := 0
	for range ticks {
		count++
		time.Sleep(20 * time.Millisecond)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("closed-loop drift must not abort: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 ticks, got %d", count)
	}
}

func TestDispatcherUnboundedTicksUntilDuration(t *testing.T) {
	d := &dispatcher{duration: 20 * time.Millisecond, slack: time.Millisecond}
	ticks := make(chan struct{})
	errCh := make(chan error, 1)
	start := time.Now()
	go func() { errCh <- d.run(context.Background(), ticks) }()

	count := 0
	for range ticks {
		count++
	}
	elapsed := time.Since(start)
	if err := <-errCh; err != nil {
		t.Fatalf("unbounded dispatch failed: %v", err)
	}
	if count == 0 {
		t.Fatal("expected back-to-back ticks")
	}
	if elapsed < 20*time.Millisecond {
		t.Fatalf("stopped before the duration elapsed: %s", elapsed)
	}
}

func TestDispatcherHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := &dispatcher{
		sched:  schedule.Schedule{0, time.Second},
		slack:  time.Second,
		strict: true,
	}
	ticks := make(chan struct{})
	errCh := make(chan error, 1)
	go func() { errCh <- d.run(ctx, ticks) }()

	<-ticks
	cancel()
	for range ticks {
	}
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
