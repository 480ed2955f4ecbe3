// Package dummy is a local stand-in for the system under test: it answers
// the matmul, compute and io workloads on hot and cold routes, with knobs
// for capacity, latency, errors and deliberately corrupt answers.
package dummy

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/richardlee159/rload/internal/workload"
)

// Config tunes the simulated target.
type Config struct {
	Addr         string
	Capacity     int           // requests per second the target can absorb (0 = unlimited)
	BaseLatency  time.Duration // added to every response
	Jitter       time.Duration // uniform extra latency in [0, Jitter)
	ErrorRate    float64       // fraction of requests answered with 500
	CorruptEvery int           // every n-th matmul reply carries a wrong checksum (0 = never)
	Seed         int64
}

// Server simulates the load-test target.
type Server struct {
	cfg     Config
	limiter *rate.Limiter
	srv     *http.Server

	mu      sync.Mutex
	rnd     *rand.Rand
	handled atomic.Int64
}

func New(cfg Config) *Server {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Server{cfg: cfg, rnd: rand.New(rand.NewSource(seed))}
	if cfg.Capacity > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.Capacity), cfg.Capacity)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/hot/", s.handle)
	mux.HandleFunc("/cold/", s.handle)
	s.srv = &http.Server{Addr: cfg.Addr, Handler: mux}
	return s
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("dummy server failed: %v\n", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Handler exposes the mux for httptest-based callers.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Handled is the number of requests answered so far.
func (s *Server) Handled() int64 {
	return s.handled.Load()
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	n := s.handled.Add(1)

	// A saturated target queues rather than rejects: waiting here is what a
	// closed-loop client experiences as rising latency.
	if s.limiter != nil {
		if err := s.limiter.Wait(r.Context()); err != nil {
			return
		}
	}
	if d := s.delay(); d > 0 {
		select {
		case <-time.After(d):
		case <-r.Context().Done():
			return
		}
	}
	if s.cfg.ErrorRate > 0 && s.random() < s.cfg.ErrorRate {
		http.Error(w, "simulated failure", http.StatusInternalServerError)
		return
	}

	switch {
	case strings.HasSuffix(r.URL.Path, "matmul"):
		s.matmul(w, r, n)
	case strings.HasSuffix(r.URL.Path, "compute"), strings.HasSuffix(r.URL.Path, "io"):
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) matmul(w http.ResponseWriter, r *http.Request, n int64) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 64))
	if err != nil || len(body) < 16 {
		http.Error(w, "matmul body must carry two big-endian dimensions", http.StatusBadRequest)
		return
	}
	size := binary.BigEndian.Uint64(body[:8])
	if size == 0 {
		http.Error(w, "matmul size must be non-zero", http.StatusBadRequest)
		return
	}

	sum := workload.MatmulChecksum(size)
	if s.cfg.CorruptEvery > 0 && n%int64(s.cfg.CorruptEvery) == 0 {
		sum++
	}

	reply := make([]byte, 8)
	binary.BigEndian.PutUint64(reply, sum)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(reply)
}

func (s *Server) delay() time.Duration {
	d := s.cfg.BaseLatency
	if s.cfg.Jitter > 0 {
		s.mu.Lock()
		d += time.Duration(s.rnd.Int63n(int64(s.cfg.Jitter)))
		s.mu.Unlock()
	}
	return d
}

func (s *Server) random() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

