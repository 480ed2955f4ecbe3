// Package output writes the run's exports: the per-request CSV, the
// quantile summary file, and the console report.
package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/richardlee159/rload/internal/metrics"
)

// csvHeader is the fixed result-file layout downstream tooling parses.
var csvHeader = []string{"instance", "startTime", "responseTime", "connectionTimeout", "functionTimeout", "statusCode"}

// WriteCSV exports one row per completed request. Timestamps and latencies
// are in microseconds; booleans are literal; the status is 0 when none was
// received. A write failure is fatal to the run and returned to the caller.
func WriteCSV(path string, outcomes []metrics.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return fmt.Errorf("write results header: %w", err)
	}
	for _, o := range outcomes {
		row := []string{
			o.Target,
			strconv.FormatInt(o.Start.UnixMicro(), 10),
			strconv.FormatInt(o.Latency().Microseconds(), 10),
			strconv.FormatBool(o.Class == metrics.ClassTimeout),
			strconv.FormatBool(o.Failed() && o.Class != metrics.ClassTimeout),
			strconv.Itoa(o.Status),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write results row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush results file: %w", err)
	}
	return f.Close()
}
