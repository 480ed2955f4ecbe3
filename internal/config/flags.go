package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rload",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Target and schedule
	flags.String("target", "", "Base URL of the system under test (e.g. http://10.0.0.1:8080)")
	flags.DurationP("duration", "d", 0, "How long to offer load (e.g. 30s, 1m)")
	flags.IntP("rate", "r", 0, "Requests per second (0 means unbounded)")
	flags.String("arrival-model", string(ArrivalModelUniform), "Arrival process: uniform or poisson")
	flags.StringP("tracefile", "f", "", "Path to an arrival trace (ascending microsecond offsets)")
	flags.Int("replay", 1, "Times to replay the trace")

	// Load discipline
	flags.IntP("connections", "c", 0, "Closed-loop virtual user bound (0 means open loop)")
	flags.Duration("timeout", 10*time.Second, "Per-request timeout")
	flags.Duration("slack", 100*time.Millisecond, "How far the dispatcher may fall behind before aborting")
	flags.Bool("warmup", false, "Prepend a warm-up ramp and discard its outcomes from statistics")
	flags.Duration("warmup-duration", 10*time.Second, "Length of the warm-up ramp")

	// Workload
	flags.String("workload", "matmul", "Workload kind: matmul, compute or io")
	flags.Uint64("input-size", 0, "Workload size parameter")
	flags.Float64("hot-percent", 0, "Fraction of requests routed to the hot target [0, 1]")
	flags.Int64("seed", 0, "Random seed (0 means time-based)")

	// Output
	flags.String("results-path", "", "Write per-request results CSV to this path")
	flags.String("summary-path", "", "Write the quantile summary (json or yaml by extension)")
	flags.Duration("report-interval", 0, "Rolling report period (0 disables)")
	flags.String("stats", string(StatsModeExact), "Latency statistics: exact or stream")
	flags.Bool("log-errors", false, "Log each failed request to stderr")
	flags.Bool("integrity-fatal", false, "Treat any checksum mismatch as a run failure")

	// Observability
	flags.String("prom-listen", "", "Serve Prometheus metrics on this address during the run")
	flags.Bool("tracing", false, "Enable OpenTelemetry span export")
	flags.String("tracing-endpoint", "", "OTLP endpoint (defaults to OTEL_EXPORTER_OTLP_ENDPOINT)")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: grpc or http")
	flags.Bool("tracing-insecure", false, "Disable TLS for the OTLP exporter")
	flags.Float64("tracing-sample-rate", 1.0, "Span sampling ratio [0, 1]")

	flags.String("config", "", "Path to configuration file (JSON or YAML)")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\nFlags:\n", cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}
