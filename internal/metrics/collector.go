package metrics

import (
	"fmt"
	"io"
	"time"
)

// SummaryPercentiles is the percentile table reported at the end of a run.
var SummaryPercentiles = []float64{50, 90, 95, 99, 99.9, 100}

// AggregatorOptions configure the single outcome consumer.
type AggregatorOptions struct {
	Sampler        Sampler       // latency accumulator (default exact)
	Warmup         int           // discard the first N observed outcomes from stats
	KeepOutcomes   bool          // retain raw outcomes for CSV export
	ReportInterval time.Duration // rolling report period (0 disables)
	ReportWriter   io.Writer     // rolling report destination
	ReportQuantile float64       // percentile shown in rolling reports (default 99)
	OnOutcome      func(Outcome) // optional per-outcome hook (metrics export)
}

// Aggregator drains the outcome channel until all producers are done and
// folds outcomes into running statistics. It is the sole owner of its state:
// Summary and Outcomes must only be called after Run has returned.
type Aggregator struct {
	opt AggregatorOptions

	received  int64
	discarded int64
	counts    [numClassifications]int64
	outcomes  []Outcome

	window       *ExactSampler
	windowCounts [numClassifications]int64
}

func NewAggregator(opt AggregatorOptions) *Aggregator {
	if opt.Sampler == nil {
		opt.Sampler = NewExactSampler()
	}
	if opt.ReportQuantile <= 0 {
		opt.ReportQuantile = 99
	}
	if opt.ReportWriter == nil {
		opt.ReportWriter = io.Discard
	}
	return &Aggregator{opt: opt, window: NewExactSampler()}
}

// Run consumes outcomes until the channel is closed. Rolling reports, when
// enabled, are emitted from the same goroutine so no locking is needed.
func (a *Aggregator) Run(outcomes <-chan Outcome) {
	var tick <-chan time.Time
	if a.opt.ReportInterval > 0 {
		ticker := time.NewTicker(a.opt.ReportInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case o, ok := <-outcomes:
			if !ok {
				return
			}
			a.observe(o)
		case <-tick:
			a.emitWindow()
		}
	}
}

func (a *Aggregator) observe(o Outcome) {
	a.received++
	if a.opt.KeepOutcomes {
		a.outcomes = append(a.outcomes, o)
	}
	// Warm-up outcomes count toward the total received but never reach the
	// statistics. Discard is by arrival order at the aggregator.
	if a.received <= int64(a.opt.Warmup) {
		a.discarded++
		return
	}

	a.counts[o.Class]++
	a.opt.Sampler.Record(o.Latency())
	a.windowCounts[o.Class]++
	a.window.Record(o.Latency())

	if a.opt.OnOutcome != nil {
		a.opt.OnOutcome(o)
	}
}

// Window is a rolling-report snapshot, reset after each emission.
type Window struct {
	Total     int64
	Successes int64
	Failures  int64
	QuantileP float64
	Quantile  time.Duration
}

func (a *Aggregator) emitWindow() {
	w := Window{QuantileP: a.opt.ReportQuantile}
	for class, n := range a.windowCounts {
		w.Total += n
		if Classification(class) == ClassSuccess {
			w.Successes += n
		} else {
			w.Failures += n
		}
	}
	w.Quantile = a.window.Quantile(a.opt.ReportQuantile)

	fmt.Fprintf(a.opt.ReportWriter, "[rolling] total=%d success=%d errors=%d p%g=%s\n",
		w.Total, w.Successes, w.Failures, w.QuantileP, w.Quantile)

	a.window.Reset()
	for i := range a.windowCounts {
		a.windowCounts[i] = 0
	}
}

// Outcomes returns the retained raw outcomes (KeepOutcomes only).
func (a *Aggregator) Outcomes() []Outcome {
	return a.outcomes
}

// PercentilePoint is one row of the percentile table.
type PercentilePoint struct {
	Percentile float64
	Latency    time.Duration
}

// Summary is the final exported result of a run.
type Summary struct {
	TotalReceived     int64
	Expected          int
	WarmupDiscarded   int64
	Successes         int64
	Timeouts          int64
	StatusErrors      int64
	ConnectErrors     int64
	OtherErrors       int64
	IntegrityFailures int64
	Percentiles       []PercentilePoint
	Goodput           float64 // successful requests per second
	Elapsed           time.Duration
	Overloaded        bool
	Failed            bool
}

// Errors is the count of failed outcomes, integrity failures included.
func (s Summary) Errors() int64 {
	return s.Timeouts + s.StatusErrors + s.ConnectErrors + s.OtherErrors + s.IntegrityFailures
}

// Counted is the number of outcomes folded into statistics.
func (s Summary) Counted() int64 {
	return s.Successes + s.Errors()
}

// Summary computes the final summary. A run fails when the dispatcher
// signalled overload or fewer outcomes arrived than were scheduled.
func (a *Aggregator) Summary(elapsed time.Duration, expected int, overloaded bool) Summary {
	s := Summary{
		TotalReceived:     a.received,
		Expected:          expected,
		WarmupDiscarded:   a.discarded,
		Successes:         a.counts[ClassSuccess],
		Timeouts:          a.counts[ClassTimeout],
		StatusErrors:      a.counts[ClassStatusError],
		ConnectErrors:     a.counts[ClassConnectError],
		OtherErrors:       a.counts[ClassOtherError],
		IntegrityFailures: a.counts[ClassIntegrity],
		Elapsed:           elapsed,
		Overloaded:        overloaded,
	}
	for _, p := range SummaryPercentiles {
		s.Percentiles = append(s.Percentiles, PercentilePoint{
			Percentile: p,
			Latency:    a.opt.Sampler.Quantile(p),
		})
	}
	if elapsed > 0 {
		s.Goodput = float64(s.Successes) / elapsed.Seconds()
	}
	s.Failed = overloaded || (expected > 0 && a.received < int64(expected))
	return s
}
