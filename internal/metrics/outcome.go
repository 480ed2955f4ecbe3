package metrics

import "time"

// Classification buckets every finished request into exactly one category.
type Classification int

const (
	ClassSuccess Classification = iota
	ClassTimeout
	ClassStatusError
	ClassConnectError
	ClassOtherError
	ClassIntegrity

	numClassifications
)

func (c Classification) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassTimeout:
		return "timeout"
	case ClassStatusError:
		return "status-error"
	case ClassConnectError:
		return "connect-error"
	case ClassOtherError:
		return "other-error"
	case ClassIntegrity:
		return "integrity"
	}
	return "unknown"
}

// Outcome is the per-request measurement record handed from the request task
// to the aggregator.
type Outcome struct {
	Start    time.Time
	End      time.Time
	Target   string
	Class    Classification
	Status   int  // HTTP status, 0 when the request never got a response
	Verified bool // response checksum matched the locally computed answer
}

// Latency is the request's wall-clock duration, send to last response byte.
func (o Outcome) Latency() time.Duration {
	return o.End.Sub(o.Start)
}

// Failed reports whether the outcome counts as an error. Integrity failures
// are failures even though the request itself completed.
func (o Outcome) Failed() bool {
	return o.Class != ClassSuccess
}
