package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/richardlee159/rload/internal/metrics"
)

// Result captures what the engine issued and how the run ended.
type Result struct {
	Sent       int           // requests actually issued
	Expected   int           // schedule length (0 for unbounded runs)
	Duration   time.Duration // wall-clock run time
	Overloaded bool          // dispatcher fell behind past slack
	Err        error         // terminal run error, if any
}

// Runner wires the dispatcher, the admission pool and the executor together.
type Runner struct {
	opt  Options
	pool *TokenPool
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt, pool: NewTokenPool(opt.Tokens)}
}

// Pool exposes the admission pool, mainly for tests.
func (r *Runner) Pool() *TokenPool {
	return r.pool
}

// Run drives the schedule to completion, fanning each ticked request out to
// its own executor goroutine, and closes out once every issued request has
// reported its outcome. The caller consumes out concurrently and must drain
// it until closure; the channel's capacity is the sole backpressure between
// request tasks and the aggregator. Run blocks until out is closed.
//
// The slack check is armed only in open-loop mode: with an admission bound,
// issue times drifting behind the schedule is the intended degradation, not
// an overload.
func (r *Runner) Run(parent context.Context, out chan<- metrics.Outcome) Result {
	start := time.Now()
	dispCtx, dispCancel := context.WithCancel(parent)
	defer dispCancel()
	// Requests get their own context: the dispatcher finishing is not a
	// reason to abort a request already on the wire.
	execCtx, execCancel := context.WithCancel(parent)
	defer execCancel()

	ticks := make(chan struct{})
	d := &dispatcher{
		sched:    r.opt.Schedule,
		duration: r.opt.Duration,
		slack:    r.opt.Slack,
		strict:   r.pool == nil,
	}
	dispatchDone := make(chan error, 1)
	go func() {
		dispatchDone <- d.run(dispCtx, ticks)
	}()

	var wg sync.WaitGroup
	sent := 0
	var admitErr error
	for range ticks {
		if err := r.pool.Acquire(dispCtx); err != nil {
			admitErr = err
			break
		}
		sent++
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer r.pool.Release()
			r.opt.Executor.Execute(execCtx, out)
		}()
	}

	// Unblock the dispatcher if we left the tick loop early.
	dispCancel()
	err := <-dispatchDone

	var violation *ScheduleViolation
	overloaded := errors.As(err, &violation)
	if !overloaded && errors.Is(err, context.Canceled) {
		// Cancellation is our own teardown unless the parent was cancelled.
		err = parent.Err()
	}
	if err == nil && admitErr != nil && !errors.Is(admitErr, context.Canceled) {
		err = admitErr
	}
	if err == nil {
		err = parent.Err()
	}

	// In-flight requests are aborted only for cause: a completed schedule
	// waits for its tail to finish and report.
	if err != nil {
		execCancel()
	}
	wg.Wait()
	close(out)

	return Result{
		Sent:       sent,
		Expected:   len(r.opt.Schedule),
		Duration:   time.Since(start),
		Overloaded: overloaded,
		Err:        err,
	}
}
