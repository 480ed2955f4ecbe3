package request

import (
	"fmt"
	"strings"
	"sync"
)

// Selector routes each request to the hot or the cold target prefix. A
// running accumulator gains the hot fraction per request and routes hot
// whenever it crosses 1.0 (subtracting 1.0 on the crossing), so the realized
// hot share stays within 1/N of the configured fraction, exactly rather
// than in expectation.
type Selector struct {
	mu       sync.Mutex
	hotBase  string
	coldBase string
	fraction float64
	acc      float64
}

// NewSelector builds a selector over baseURL. phase seeds the accumulator
// with an initial fractional value so repeated runs do not all align the hot
// requests on the same schedule positions; pass 0 for a fully deterministic
// sequence.
func NewSelector(baseURL string, fraction, phase float64) (*Selector, error) {
	if fraction < 0 || fraction > 1 {
		return nil, fmt.Errorf("hot fraction %g outside [0, 1]", fraction)
	}
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("target base URL is required")
	}
	return &Selector{
		hotBase:  base + "/hot",
		coldBase: base + "/cold",
		fraction: fraction,
		acc:      phase - float64(int(phase)),
	}, nil
}

// Next returns the full URL for the next request. Calls are serialized so
// the hot count after N requests is the same regardless of goroutine
// interleaving.
func (s *Selector) Next(path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acc += s.fraction
	base := s.coldBase
	if s.acc >= 1.0 {
		s.acc -= 1.0
		base = s.hotBase
	}
	return base + "/" + path
}
