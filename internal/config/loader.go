package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line
// arguments. Flags override file settings.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and configuration files to produce a
// Config.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	if len(args) == 0 && configPath == "" {
		displayHelp(cmd)
		return nil, ErrHelpRequested
	}

	v := viper.New()
	setDefaults(v)
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	if err := applyFlagOverrides(v, flagSet); err != nil {
		return nil, err
	}

	cfg := &Config{ConfigFile: configPath}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Arrival = ArrivalModel(strings.ToLower(string(cfg.Arrival)))
	cfg.StatsMode = StatsMode(strings.ToLower(string(cfg.StatsMode)))
	cfg.Workload = strings.ToLower(cfg.Workload)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("arrival", string(ArrivalModelUniform))
	v.SetDefault("replay", 1)
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("slack", 100*time.Millisecond)
	v.SetDefault("warmup_duration", 10*time.Second)
	v.SetDefault("workload", "matmul")
	v.SetDefault("stats", string(StatsModeExact))
	v.SetDefault("tracing.protocol", "grpc")
	v.SetDefault("tracing.sample_rate", 1.0)
}

// applyFlagOverrides copies every flag the user set on the command line over
// the file-provided settings.
func applyFlagOverrides(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	set := func(key string, value func() (interface{}, error)) {
		if err != nil {
			return
		}
		val, getErr := value()
		if getErr != nil {
			err = getErr
			return
		}
		v.Set(key, val)
	}

	overrides := map[string]struct {
		key string
		get func() (interface{}, error)
	}{
		"target":              {"target", func() (interface{}, error) { return flags.GetString("target") }},
		"duration":            {"duration", func() (interface{}, error) { return flags.GetDuration("duration") }},
		"rate":                {"rate", func() (interface{}, error) { return flags.GetInt("rate") }},
		"arrival-model":       {"arrival", func() (interface{}, error) { return flags.GetString("arrival-model") }},
		"tracefile":           {"trace_file", func() (interface{}, error) { return flags.GetString("tracefile") }},
		"replay":              {"replay", func() (interface{}, error) { return flags.GetInt("replay") }},
		"connections":         {"connections", func() (interface{}, error) { return flags.GetInt("connections") }},
		"timeout":             {"timeout", func() (interface{}, error) { return flags.GetDuration("timeout") }},
		"slack":               {"slack", func() (interface{}, error) { return flags.GetDuration("slack") }},
		"warmup":              {"warmup", func() (interface{}, error) { return flags.GetBool("warmup") }},
		"warmup-duration":     {"warmup_duration", func() (interface{}, error) { return flags.GetDuration("warmup-duration") }},
		"workload":            {"workload", func() (interface{}, error) { return flags.GetString("workload") }},
		"input-size":          {"input_size", func() (interface{}, error) { return flags.GetUint64("input-size") }},
		"hot-percent":         {"hot_percent", func() (interface{}, error) { return flags.GetFloat64("hot-percent") }},
		"seed":                {"seed", func() (interface{}, error) { return flags.GetInt64("seed") }},
		"results-path":        {"results_path", func() (interface{}, error) { return flags.GetString("results-path") }},
		"summary-path":        {"summary_path", func() (interface{}, error) { return flags.GetString("summary-path") }},
		"report-interval":     {"report_interval", func() (interface{}, error) { return flags.GetDuration("report-interval") }},
		"stats":               {"stats", func() (interface{}, error) { return flags.GetString("stats") }},
		"log-errors":          {"log_errors", func() (interface{}, error) { return flags.GetBool("log-errors") }},
		"integrity-fatal":     {"integrity_fatal", func() (interface{}, error) { return flags.GetBool("integrity-fatal") }},
		"prom-listen":         {"prom_listen", func() (interface{}, error) { return flags.GetString("prom-listen") }},
		"tracing":             {"tracing.enable", func() (interface{}, error) { return flags.GetBool("tracing") }},
		"tracing-endpoint":    {"tracing.endpoint", func() (interface{}, error) { return flags.GetString("tracing-endpoint") }},
		"tracing-protocol":    {"tracing.protocol", func() (interface{}, error) { return flags.GetString("tracing-protocol") }},
		"tracing-insecure":    {"tracing.insecure", func() (interface{}, error) { return flags.GetBool("tracing-insecure") }},
		"tracing-sample-rate": {"tracing.sample_rate", func() (interface{}, error) { return flags.GetFloat64("tracing-sample-rate") }},
	}

	flags.Visit(func(f *pflag.Flag) {
		if o, ok := overrides[f.Name]; ok {
			set(o.key, o.get)
		}
	})
	return err
}
