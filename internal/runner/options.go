package runner

import (
	"context"
	"time"

	"github.com/richardlee159/rload/internal/metrics"
	"github.com/richardlee159/rload/internal/schedule"
)

// DefaultSlack is how far the dispatcher may fall behind the schedule before
// the run is declared unsustainable.
const DefaultSlack = 100 * time.Millisecond

// Executor performs exactly one request issued at tick time and sends
// exactly one outcome on the provided channel.
type Executor interface {
	Execute(ctx context.Context, out chan<- metrics.Outcome)
}

// Options configure a run.
type Options struct {
	Schedule schedule.Schedule // nil means unbounded issue until Duration
	Duration time.Duration     // wall-clock horizon for the unbounded mode
	Tokens   int               // closed-loop concurrency bound (0 = open loop)
	Slack    time.Duration     // dispatcher lateness budget
	Executor Executor          // required
}

func (o *Options) normalize() {
	if o.Slack <= 0 {
		o.Slack = DefaultSlack
	}
	if o.Tokens < 0 {
		o.Tokens = 0
	}
}
