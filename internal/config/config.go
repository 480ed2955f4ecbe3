package config

import (
	"fmt"
	"strings"
	"time"
)

type ArrivalModel string

const (
	ArrivalModelUniform ArrivalModel = "uniform"
	ArrivalModelPoisson ArrivalModel = "poisson"
)

type StatsMode string

const (
	StatsModeExact  StatsMode = "exact"
	StatsModeStream StatsMode = "stream"
)

// Config is the fully resolved run configuration: file settings merged with
// flag overrides.
type Config struct {
	Target      string        `mapstructure:"target"`
	Duration    time.Duration `mapstructure:"duration"`
	Rate        int           `mapstructure:"rate"` // requests per second; 0 means unbounded
	Arrival     ArrivalModel  `mapstructure:"arrival"`
	Connections int           `mapstructure:"connections"` // closed-loop bound; 0 means open loop
	Timeout     time.Duration `mapstructure:"timeout"`
	Slack       time.Duration `mapstructure:"slack"`

	Warmup         bool          `mapstructure:"warmup"`
	WarmupDuration time.Duration `mapstructure:"warmup_duration"`

	TraceFile string `mapstructure:"trace_file"`
	Replay    int    `mapstructure:"replay"`

	Workload   string  `mapstructure:"workload"`
	InputSize  uint64  `mapstructure:"input_size"`
	HotPercent float64 `mapstructure:"hot_percent"`
	Seed       int64   `mapstructure:"seed"`

	ResultsPath    string        `mapstructure:"results_path"`
	SummaryPath    string        `mapstructure:"summary_path"`
	ReportInterval time.Duration `mapstructure:"report_interval"`
	StatsMode      StatsMode     `mapstructure:"stats"`
	LogErrors      bool          `mapstructure:"log_errors"`
	IntegrityFatal bool          `mapstructure:"integrity_fatal"`

	PromListen string        `mapstructure:"prom_listen"`
	Tracing    TracingConfig `mapstructure:"tracing"`

	ConfigFile string `mapstructure:"-"`
}

// TracingConfig controls the optional OTLP span exporter.
type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Enable      bool    `mapstructure:"enable"`
}

func (t TracingConfig) Enabled() bool {
	return t.Enable
}

// Validate rejects configurations the engine cannot run.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target) == "" {
		return fmt.Errorf("target is required")
	}
	if !strings.HasPrefix(c.Target, "http://") && !strings.HasPrefix(c.Target, "https://") {
		return fmt.Errorf("target must be an http(s) URL, got %q", c.Target)
	}
	if c.TraceFile == "" && c.Duration <= 0 {
		return fmt.Errorf("either a duration or a trace file is required")
	}
	if c.TraceFile != "" && c.Duration > 0 {
		return fmt.Errorf("duration and trace file are mutually exclusive")
	}
	if c.Rate < 0 {
		return fmt.Errorf("rate must be >= 0")
	}
	if c.Rate == 0 && c.TraceFile == "" && c.Connections == 0 {
		return fmt.Errorf("unbounded rate requires a connection bound")
	}
	if c.Connections < 0 {
		return fmt.Errorf("connections must be >= 0")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Replay < 1 {
		return fmt.Errorf("replay must be >= 1")
	}
	if c.HotPercent < 0 || c.HotPercent > 1 {
		return fmt.Errorf("hot_percent must be within [0, 1]")
	}
	if c.Warmup && c.WarmupDuration <= 0 {
		return fmt.Errorf("warmup requires a positive warmup_duration")
	}
	if c.Warmup && c.TraceFile != "" {
		return fmt.Errorf("warmup and trace file are mutually exclusive")
	}
	if c.Warmup && c.Rate == 0 {
		return fmt.Errorf("warmup requires a positive rate")
	}
	switch c.Arrival {
	case ArrivalModelUniform, ArrivalModelPoisson:
	default:
		return fmt.Errorf("unknown arrival model %q", c.Arrival)
	}
	switch c.StatsMode {
	case StatsModeExact, StatsModeStream:
	default:
		return fmt.Errorf("unknown stats mode %q", c.StatsMode)
	}
	switch c.Workload {
	case "matmul", "compute", "io":
	default:
		return fmt.Errorf("unknown workload kind %q", c.Workload)
	}
	return nil
}
