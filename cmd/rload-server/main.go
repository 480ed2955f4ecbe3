// rload-server runs the dummy target locally, so the generator can be
// exercised end to end without a real deployment.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/richardlee159/rload/internal/dummy"
)

func main() {
	flags := pflag.NewFlagSet("rload-server", pflag.ContinueOnError)
	addr := flags.String("addr", ":8080", "Listen address")
	capacity := flags.Int("capacity", 0, "Requests per second the target can absorb (0 = unlimited)")
	baseLatency := flags.Duration("latency", 5*time.Millisecond, "Base response latency")
	jitter := flags.Duration("jitter", 0, "Uniform extra latency in [0, jitter)")
	errorRate := flags.Float64("error-rate", 0, "Fraction of requests answered with 500")
	corruptEvery := flags.Int("corrupt-every", 0, "Corrupt every n-th matmul checksum (0 = never)")
	seed := flags.Int64("seed", 0, "Random seed (0 means time-based)")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	srv := dummy.New(dummy.Config{
		Addr:         *addr,
		Capacity:     *capacity,
		BaseLatency:  *baseLatency,
		Jitter:       *jitter,
		ErrorRate:    *errorRate,
		CorruptEvery: *corruptEvery,
		Seed:         *seed,
	})
	srv.Start()
	fmt.Printf("rload-server listening on %s (capacity=%d rps)\n", *addr, *capacity)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("served %d requests\n", srv.Handled())
}
