package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/richardlee159/rload/internal/schedule"
)

// ErrOverloaded is the terminal condition raised when the dispatcher can no
// longer sustain the offered rate. Schedule violations unwrap to it.
var ErrOverloaded = errors.New("cannot sustain offered rate")

// ScheduleViolation reports which offset the dispatcher missed and by how
// much.
type ScheduleViolation struct {
	Index  int
	Behind time.Duration
}

func (e *ScheduleViolation) Error() string {
	return fmt.Sprintf("schedule violation at offset %d: %s behind: %v", e.Index, e.Behind, ErrOverloaded)
}

func (e *ScheduleViolation) Unwrap() error {
	return ErrOverloaded
}

// How much of each wait is burned in a spin instead of a sleep. Sleeping the
// whole interval leaves the wakeup at the mercy of timer granularity, which
// is far coarser than the sub-millisecond spacing high rates need.
const spinThreshold = time.Millisecond

// dispatcher converts a schedule into real-time ticks. It runs on a locked
// OS thread so request I/O on the shared scheduler cannot add jitter to the
// issue times it produces.
type dispatcher struct {
	sched    schedule.Schedule
	duration time.Duration // wall-clock horizon when sched is nil
	slack    time.Duration
	strict   bool // abort past slack; disabled under closed-loop admission
}

// run emits one tick per schedule offset, or back-to-back ticks until the
// duration elapses when no schedule is set. It closes ticks on return.
func (d *dispatcher) run(ctx context.Context, ticks chan<- struct{}) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(ticks)

	t0 := time.Now()
	if len(d.sched) == 0 {
		horizon := t0.Add(d.duration)
		for time.Now().Before(horizon) {
			select {
			case ticks <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}

	for i, offset := range d.sched {
		deadline := t0.Add(offset)
		if behind := time.Since(deadline); d.strict && behind > d.slack {
			return &ScheduleViolation{Index: i, Behind: behind}
		}
		if wait := time.Until(deadline); wait > spinThreshold {
			timer := time.NewTimer(wait - spinThreshold)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			}
		}
		for time.Now().Before(deadline) {
			// spin for the final sub-millisecond stretch
		}
		select {
		case ticks <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
