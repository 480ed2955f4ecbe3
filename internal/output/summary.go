package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/richardlee159/rload/internal/metrics"
)

// WriteSummary exports the percentile table as a mapping from quantile label
// (e.g. "0.99") to latency in milliseconds. The encoding follows the file
// extension: .yaml/.yml produce YAML, everything else JSON.
func WriteSummary(path string, sum metrics.Summary) error {
	doc := make(map[string]float64, len(sum.Percentiles))
	for _, p := range sum.Percentiles {
		doc[QuantileLabel(p.Percentile)] = float64(p.Latency) / float64(time.Millisecond)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary file: %w", err)
	}
	return nil
}

// QuantileLabel renders a percentile as its quantile form: 99.9 -> "0.999",
// 100 -> "1".
func QuantileLabel(percentile float64) string {
	return strconv.FormatFloat(percentile/100, 'f', -1, 64)
}
