package output

import (
	"fmt"
	"io"

	"github.com/richardlee159/rload/internal/metrics"
)

// PrintReport outputs the human-readable run summary, and on a passing run
// the machine-parsable error%/goodput line.
func PrintReport(w io.Writer, runID string, sum metrics.Summary) {
	fmt.Fprintln(w, "\n--- Load Test Results ---")
	fmt.Fprintf(w, "Run ID:            %s\n", runID)
	fmt.Fprintf(w, "Total Received:    %d\n", sum.TotalReceived)
	if sum.Expected > 0 {
		fmt.Fprintf(w, "Scheduled:         %d\n", sum.Expected)
	}
	if sum.WarmupDiscarded > 0 {
		fmt.Fprintf(w, "Warm-up Discarded: %d\n", sum.WarmupDiscarded)
	}
	fmt.Fprintf(w, "Successful:        %d\n", sum.Successes)
	fmt.Fprintf(w, "Errors:            %d\n", sum.Errors())
	if sum.Timeouts > 0 {
		fmt.Fprintf(w, "  Timeouts:        %d\n", sum.Timeouts)
	}
	if sum.StatusErrors > 0 {
		fmt.Fprintf(w, "  Status Errors:   %d\n", sum.StatusErrors)
	}
	if sum.ConnectErrors > 0 {
		fmt.Fprintf(w, "  Connect Errors:  %d\n", sum.ConnectErrors)
	}
	if sum.OtherErrors > 0 {
		fmt.Fprintf(w, "  Other Errors:    %d\n", sum.OtherErrors)
	}
	if sum.IntegrityFailures > 0 {
		fmt.Fprintf(w, "INTEGRITY FAILURES: %d (target computed wrong answers)\n", sum.IntegrityFailures)
	}
	fmt.Fprintf(w, "Duration:          %s\n", sum.Elapsed)

	fmt.Fprintln(w, "\nLatency:")
	for _, p := range sum.Percentiles {
		fmt.Fprintf(w, "  P%-6g           %s\n", p.Percentile, p.Latency)
	}

	if sum.Overloaded {
		fmt.Fprintln(w, "\nRun aborted: dispatcher could not sustain the offered rate")
	}
	if !sum.Failed {
		counted := sum.Counted()
		fraction := 0.0
		if counted > 0 {
			fraction = float64(sum.Errors()) / float64(counted)
		}
		fmt.Fprintf(w, "\nerror%%=\"%g\" goodput=\"%.2f\"\n", fraction, sum.Goodput)
	}
}
