package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Target:    "http://10.0.0.1:8080",
		Duration:  30 * time.Second,
		Rate:      100,
		Arrival:   ArrivalModelUniform,
		Timeout:   10 * time.Second,
		Replay:    1,
		Workload:  "matmul",
		InputSize: 64,
		StatsMode: StatsModeExact,
	}
}

func TestValidateAcceptsTypicalRun(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing target", func(c *Config) { c.Target = "" }, "target is required"},
		{"non-http target", func(c *Config) { c.Target = "10.0.0.1:8080" }, "http(s)"},
		{"no duration or trace", func(c *Config) { c.Duration = 0 }, "duration or a trace"},
		{"duration and trace", func(c *Config) { c.TraceFile = "t.txt" }, "mutually exclusive"},
		{"negative rate", func(c *Config) { c.Rate = -1 }, "rate"},
		{"unbounded open loop", func(c *Config) { c.Rate = 0; c.Connections = 0 }, "connection bound"},
		{"negative connections", func(c *Config) { c.Connections = -2 }, "connections"},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, "timeout"},
		{"zero replay", func(c *Config) { c.Replay = 0 }, "replay"},
		{"hot percent above one", func(c *Config) { c.HotPercent = 1.5 }, "hot_percent"},
		{"warmup without length", func(c *Config) { c.Warmup = true; c.WarmupDuration = 0 }, "warmup"},
		{"warmup with trace file", func(c *Config) {
			c.Warmup = true
			c.WarmupDuration = 10 * time.Second
			c.Duration = 0
			c.TraceFile = "t.txt"
		}, "warmup and trace file"},
		{"warmup with unbounded rate", func(c *Config) {
			c.Warmup = true
			c.WarmupDuration = 10 * time.Second
			c.Rate = 0
			c.Connections = 4
		}, "warmup requires a positive rate"},
		{"bad arrival model", func(c *Config) { c.Arrival = "burst" }, "arrival model"},
		{"bad stats mode", func(c *Config) { c.StatsMode = "sketchy" }, "stats mode"},
		{"bad workload", func(c *Config) { c.Workload = "sleep" }, "workload"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected rejection")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want mention of %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateUnboundedClosedLoop(t *testing.T) {
	cfg := validConfig()
	cfg.Rate = 0
	cfg.Connections = 16
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unbounded closed loop should be accepted: %v", err)
	}
}

func TestValidateTraceRun(t *testing.T) {
	cfg := validConfig()
	cfg.Duration = 0
	cfg.Rate = 0
	cfg.TraceFile = "trace.txt"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("trace-driven run should be accepted: %v", err)
	}
}
