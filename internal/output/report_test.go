package output

import (
	"strings"
	"testing"
	"time"

	"github.com/richardlee159/rload/internal/metrics"
)

func TestPrintReportPassingRun(t *testing.T) {
	sum := metrics.Summary{
		TotalReceived: 100,
		Expected:      100,
		Successes:     96,
		Timeouts:      4,
		Percentiles: []metrics.PercentilePoint{
			{Percentile: 50, Latency: 10 * time.Millisecond},
			{Percentile: 100, Latency: 90 * time.Millisecond},
		},
		Goodput: 48,
		Elapsed: 2 * time.Second,
	}

	var buf strings.Builder
	PrintReport(&buf, "01HX3YJ3V3", sum)
	report := buf.String()

	for _, want := range []string{
		"--- Load Test Results ---",
		"Run ID:            01HX3YJ3V3",
		"Total Received:    100",
		"Successful:        96",
		"Errors:            4",
		"Timeouts:        4",
		"P50",
		"P100",
		`error%="0.04" goodput="48.00"`,
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
	if strings.Contains(report, "INTEGRITY") {
		t.Error("no integrity section expected")
	}
	if strings.Contains(report, "aborted") {
		t.Error("no overload notice expected")
	}
}

func TestPrintReportFailedRunOmitsMachineLine(t *testing.T) {
	sum := metrics.Summary{
		TotalReceived: 10,
		Expected:      100,
		Successes:     10,
		Overloaded:    true,
		Failed:        true,
		Elapsed:       time.Second,
	}

	var buf strings.Builder
	PrintReport(&buf, "run", sum)
	report := buf.String()

	if strings.Contains(report, "error%=") {
		t.Error("failed runs must not emit the machine-parsable line")
	}
	if !strings.Contains(report, "Run aborted") {
		t.Error("overload notice missing")
	}
}

func TestPrintReportFlagsIntegrityFailures(t *testing.T) {
	sum := metrics.Summary{
		TotalReceived:     5,
		Successes:         4,
		IntegrityFailures: 1,
		Elapsed:           time.Second,
	}

	var buf strings.Builder
	PrintReport(&buf, "run", sum)
	if !strings.Contains(buf.String(), "INTEGRITY FAILURES: 1") {
		t.Fatalf("integrity failures not surfaced:\n%s", buf.String())
	}
}
