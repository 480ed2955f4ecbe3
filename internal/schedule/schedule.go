// Package schedule generates the ordered sequence of relative issue offsets
// for a run. All generators return strictly increasing, non-negative offsets
// and are deterministic for fixed inputs; the exponential generator takes a
// caller-seeded sampler so its randomness is reproducible too.
package schedule

import (
	"fmt"
	"math/rand"
	"time"
)

// A Schedule is the immutable arrival plan: relative offsets from run start,
// consumed in order by the dispatcher. A nil Schedule means unbounded issue.
type Schedule []time.Duration

// Constant spaces requests uniformly at the given per-second rate for the
// given duration. The k-th offset is k/rate, computed from k directly so no
// floating-point drift accumulates over long runs.
func Constant(duration time.Duration, rate int) Schedule {
	if rate <= 0 || duration <= 0 {
		return nil
	}
	var s Schedule
	for k := 0; ; k++ {
		offset := time.Duration(float64(k) / float64(rate) * float64(time.Second))
		if offset >= duration {
			return s
		}
		s = append(s, offset)
	}
}

// Ramp issues rates[s] uniformly spaced requests during elapsed second s.
// The schedule length equals the sum of the per-second rates.
func Ramp(rates []int) Schedule {
	var s Schedule
	for sec, rate := range rates {
		if rate <= 0 {
			continue
		}
		step := time.Second / time.Duration(rate)
		base := time.Duration(sec) * time.Second
		for k := 0; k < rate; k++ {
			s = append(s, base+time.Duration(k)*step)
		}
	}
	return s
}

// WarmupRates builds a per-second rate table: a linear climb to rate over
// warmupSeconds, followed by rate held for steadySeconds.
func WarmupRates(rate, warmupSeconds, steadySeconds int) []int {
	rates := make([]int, 0, warmupSeconds+steadySeconds)
	for s := 0; s < warmupSeconds; s++ {
		r := rate * (s + 1) / warmupSeconds
		if r < 1 {
			r = 1
		}
		rates = append(rates, r)
	}
	for s := 0; s < steadySeconds; s++ {
		rates = append(rates, rate)
	}
	return rates
}

// Sum totals a per-second rate table; over a warm-up prefix it is the number
// of outcomes the aggregator should discard.
func Sum(rates []int) int {
	total := 0
	for _, r := range rates {
		total += r
	}
	return total
}

// Exponential draws i.i.d. exponential inter-arrival times with mean 1/rate
// (Poisson arrivals), cumulatively summed and truncated to [0, duration).
func Exponential(duration time.Duration, rate int, rng *rand.Rand) Schedule {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return ExponentialSampled(duration, rate, rng.ExpFloat64)
}

// ExponentialSampled is Exponential with an injected unit-exponential
// sampler.
func ExponentialSampled(duration time.Duration, rate int, sample func() float64) Schedule {
	if rate <= 0 || duration <= 0 {
		return nil
	}
	var s Schedule
	var at time.Duration
	for {
		at += time.Duration(sample() / float64(rate) * float64(time.Second))
		if at >= duration {
			return s
		}
		s = append(s, at)
	}
}

// Validate checks the schedule invariants: offsets non-negative and ordered.
// Equal adjacent offsets are allowed so that a replayed trace may start its
// next repetition exactly where the previous one ended.
func (s Schedule) Validate() error {
	for i, offset := range s {
		if offset < 0 {
			return fmt.Errorf("offset %d is negative (%s)", i, offset)
		}
		if i > 0 && offset < s[i-1] {
			return fmt.Errorf("offset %d (%s) goes backwards from %s", i, offset, s[i-1])
		}
	}
	return nil
}

// Horizon is the last offset, or zero for an empty schedule.
func (s Schedule) Horizon() time.Duration {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}
