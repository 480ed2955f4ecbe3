package metrics

import (
	"sort"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Sampler accumulates latency samples and answers percentile queries. The
// exact sampler keeps every sample; the streaming sampler trades a bounded
// footprint for three significant figures of precision.
type Sampler interface {
	Record(d time.Duration)
	// Quantile returns the latency at percentile p in (0, 100]. With no
	// samples recorded it returns 0.
	Quantile(p float64) time.Duration
	Count() int64
	Reset()
}

// ExactSampler retains every sample and reports nearest-rank percentiles.
type ExactSampler struct {
	samples []time.Duration
	sorted  bool
}

func NewExactSampler() *ExactSampler {
	return &ExactSampler{}
}

func (s *ExactSampler) Record(d time.Duration) {
	s.samples = append(s.samples, d)
	s.sorted = false
}

// Quantile uses the nearest-rank index (N*p - 1)/100, clamped to the sample
// range, so p=100 is always the observed maximum.
func (s *ExactSampler) Quantile(p float64) time.Duration {
	if len(s.samples) == 0 {
		return 0
	}
	if !s.sorted {
		sort.Slice(s.samples, func(i, j int) bool { return s.samples[i] < s.samples[j] })
		s.sorted = true
	}
	idx := int((float64(len(s.samples))*p - 1) / 100)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(s.samples) {
		idx = len(s.samples) - 1
	}
	return s.samples[idx]
}

func (s *ExactSampler) Count() int64 {
	return int64(len(s.samples))
}

func (s *ExactSampler) Reset() {
	s.samples = s.samples[:0]
	s.sorted = false
}

// StreamSampler folds samples into an HDR histogram covering 1µs to 60s at
// three significant figures, for runs too large to keep every sample.
type StreamSampler struct {
	hist *hdrhistogram.Histogram
}

func NewStreamSampler() *StreamSampler {
	return &StreamSampler{hist: hdrhistogram.New(1, 60_000_000, 3)}
}

func (s *StreamSampler) Record(d time.Duration) {
	us := d.Microseconds()
	if us < 1 {
		us = 1
	}
	if us > 60_000_000 {
		us = 60_000_000
	}
	s.hist.RecordValue(us)
}

func (s *StreamSampler) Quantile(p float64) time.Duration {
	if s.hist.TotalCount() == 0 {
		return 0
	}
	return time.Duration(s.hist.ValueAtQuantile(p)) * time.Microsecond
}

func (s *StreamSampler) Count() int64 {
	return s.hist.TotalCount()
}

func (s *StreamSampler) Reset() {
	s.hist.Reset()
}
