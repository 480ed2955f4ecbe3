package schedule

import (
	"testing"
	"time"
)

func TestConstantTenPerSecond(t *testing.T) {
	s := Constant(time.Second, 10)
	if len(s) != 10 {
		t.Fatalf("expected 10 offsets, got %d", len(s))
	}
	if s[0] != 0 {
		t.Fatalf("first offset should be 0, got %s", s[0])
	}
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			t.Fatalf("offset %d (%s) not strictly increasing past %s", i, s[i], s[i-1])
		}
	}
	for i, offset := range s {
		if offset >= time.Second {
			t.Fatalf("offset %d (%s) reaches past the duration", i, offset)
		}
	}
}

func TestConstantLengthTracksRate(t *testing.T) {
	s := Constant(2*time.Second, 500)
	if len(s) != 1000 {
		t.Fatalf("expected 1000 offsets, got %d", len(s))
	}
}

func TestConstantZeroRate(t *testing.T) {
	if s := Constant(time.Second, 0); s != nil {
		t.Fatalf("zero rate should yield no schedule, got %d offsets", len(s))
	}
}

func TestRampLengthEqualsRateSum(t *testing.T) {
	rates := []int{2, 4, 6}
	s := Ramp(rates)
	if len(s) != Sum(rates) {
		t.Fatalf("expected %d offsets, got %d", Sum(rates), len(s))
	}
	// Each offset must land in the second implied by the cumulative rate.
	i := 0
	for sec, rate := range rates {
		lo := time.Duration(sec) * time.Second
		hi := lo + time.Second
		for k := 0; k < rate; k++ {
			if s[i] < lo || s[i] >= hi {
				t.Fatalf("offset %d (%s) outside second bucket [%s, %s)", i, s[i], lo, hi)
			}
			i++
		}
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("ramp schedule invalid: %v", err)
	}
}

func TestWarmupRatesClimbThenHold(t *testing.T) {
	rates := WarmupRates(10, 5, 3)
	want := []int{2, 4, 6, 8, 10, 10, 10, 10}
	if len(rates) != len(want) {
		t.Fatalf("expected %d seconds, got %d", len(want), len(rates))
	}
	for i := range want {
		if rates[i] != want[i] {
			t.Fatalf("second %d: expected rate %d, got %d", i, want[i], rates[i])
		}
	}
	if got := Sum(rates[:5]); got != 30 {
		t.Fatalf("warm-up discard count should be 30, got %d", got)
	}
}

func TestExponentialSampledDeterministic(t *testing.T) {
	// A unit sampler makes every inter-arrival exactly 1/rate.
	s := ExponentialSampled(time.Second, 4, func() float64 { return 1 })
	want := Schedule{250 * time.Millisecond, 500 * time.Millisecond, 750 * time.Millisecond}
	if len(s) != len(want) {
		t.Fatalf("expected %d offsets, got %d", len(want), len(s))
	}
	for i := range want {
		if s[i] != want[i] {
			t.Fatalf("offset %d: expected %s, got %s", i, want[i], s[i])
		}
	}
}

func TestValidateRejectsNegative(t *testing.T) {
	if err := (Schedule{-time.Millisecond}).Validate(); err == nil {
		t.Fatal("expected error for negative offset")
	}
}

func TestValidateRejectsBackwards(t *testing.T) {
	if err := (Schedule{0, 2 * time.Millisecond, time.Millisecond}).Validate(); err == nil {
		t.Fatal("expected error for descending offsets")
	}
}

func TestValidateAllowsTies(t *testing.T) {
	if err := (Schedule{0, time.Millisecond, time.Millisecond}).Validate(); err != nil {
		t.Fatalf("replay seams produce ties, which must validate: %v", err)
	}
}
