package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/richardlee159/rload/internal/config"
	"github.com/richardlee159/rload/internal/httpclient"
	"github.com/richardlee159/rload/internal/metrics"
	"github.com/richardlee159/rload/internal/output"
	"github.com/richardlee159/rload/internal/promexport"
	"github.com/richardlee159/rload/internal/request"
	"github.com/richardlee159/rload/internal/runner"
	"github.com/richardlee159/rload/internal/schedule"
	"github.com/richardlee159/rload/internal/tracing"
	"github.com/richardlee159/rload/internal/workload"
)

const outcomeBuffer = 100

type stderrFailureLogger struct {
	mu sync.Mutex
}

func (l *stderrFailureLogger) LogFailure(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(os.Stderr, "[rload] request failed: %v\n", err)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sched, warmupCount, err := buildSchedule(cfg, rng)
	if err != nil {
		return err
	}

	provider, err := workload.New(workload.Kind(cfg.Workload), cfg.InputSize)
	if err != nil {
		return err
	}
	selector, err := request.NewSelector(cfg.Target, cfg.HotPercent, rng.Float64())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tracer, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = tracer.Shutdown(shutdownCtx)
	}()

	exec := &request.Executor{
		Client:   httpclient.New(cfg.Timeout),
		Selector: selector,
		Workload: provider,
	}
	if cfg.Tracing.Enabled() {
		exec.Tracer = tracer.Tracer()
	}
	if cfg.LogErrors {
		logger := &stderrFailureLogger{}
		exec.OnError = logger.LogFailure
	}

	var sampler metrics.Sampler
	if cfg.StatsMode == config.StatsModeStream {
		sampler = metrics.NewStreamSampler()
	}

	aggOpts := metrics.AggregatorOptions{
		Sampler:        sampler,
		Warmup:         warmupCount,
		KeepOutcomes:   cfg.ResultsPath != "",
		ReportInterval: cfg.ReportInterval,
		ReportWriter:   os.Stderr,
	}
	var prom *promexport.Exporter
	if cfg.PromListen != "" {
		prom = promexport.New()
		prom.Start(cfg.PromListen)
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
			defer stopCancel()
			_ = prom.Stop(stopCtx)
		}()
		aggOpts.OnOutcome = prom.Observe
	}
	agg := metrics.NewAggregator(aggOpts)

	r := runner.New(runner.Options{
		Schedule: sched,
		Duration: cfg.Duration,
		Tokens:   cfg.Connections,
		Slack:    cfg.Slack,
		Executor: exec,
	})

	out := make(chan metrics.Outcome, outcomeBuffer)
	aggDone := make(chan struct{})
	go func() {
		defer close(aggDone)
		agg.Run(out)
	}()

	result := r.Run(ctx, out)
	<-aggDone

	sum := agg.Summary(result.Duration, result.Expected, result.Overloaded)

	if cfg.ResultsPath != "" {
		if err := output.WriteCSV(cfg.ResultsPath, agg.Outcomes()); err != nil {
			return err
		}
	}
	if cfg.SummaryPath != "" {
		if err := output.WriteSummary(cfg.SummaryPath, sum); err != nil {
			return err
		}
	}

	runID := ulid.Make().String()
	output.PrintReport(os.Stdout, runID, sum)

	if result.Err != nil {
		return result.Err
	}
	if cfg.IntegrityFatal && sum.IntegrityFailures > 0 {
		return fmt.Errorf("%d integrity failures: target computed wrong answers", sum.IntegrityFailures)
	}
	if sum.Failed {
		return fmt.Errorf("received %d of %d scheduled outcomes", sum.TotalReceived, sum.Expected)
	}
	return nil
}

// buildSchedule derives the arrival plan and the warm-up discard count from
// the configuration.
func buildSchedule(cfg *config.Config, rng *rand.Rand) (schedule.Schedule, int, error) {
	if cfg.TraceFile != "" {
		sched, err := schedule.LoadTrace(cfg.TraceFile)
		if err != nil {
			return nil, 0, err
		}
		return sched.Repeat(cfg.Replay), 0, nil
	}
	if cfg.Rate == 0 {
		// Unbounded: no schedule, the dispatcher ticks until the duration
		// elapses and the admission pool is the only throttle.
		return nil, 0, nil
	}

	steadySeconds := int(cfg.Duration / time.Second)
	if cfg.Warmup {
		warmupSeconds := int(cfg.WarmupDuration / time.Second)
		rates := schedule.WarmupRates(cfg.Rate, warmupSeconds, steadySeconds)
		return schedule.Ramp(rates), schedule.Sum(rates[:warmupSeconds]), nil
	}
	if cfg.Arrival == config.ArrivalModelPoisson {
		return schedule.Exponential(cfg.Duration, cfg.Rate, rng), 0, nil
	}
	return schedule.Constant(cfg.Duration, cfg.Rate), 0, nil
}
