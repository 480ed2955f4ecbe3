package httpclient

import (
	"net/http"
	"testing"
	"time"
)

func TestNewSingleTargetPoolSizing(t *testing.T) {
	c := New(5 * time.Second)
	if c.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v", c.Timeout)
	}

	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("transport is %T", c.Transport)
	}
	// One host receives the entire load; a per-host limit below the pool
	// would churn connections during the run.
	if tr.MaxIdleConnsPerHost != tr.MaxIdleConns {
		t.Fatalf("per-host idle limit %d != pool %d", tr.MaxIdleConnsPerHost, tr.MaxIdleConns)
	}
	if !tr.ForceAttemptHTTP2 {
		t.Fatal("HTTP/2 should be attempted")
	}
}

func TestNewNegativeTimeoutMeansNoTimeout(t *testing.T) {
	c := New(-time.Second)
	if c.Timeout != 0 {
		t.Fatalf("timeout = %v, want 0", c.Timeout)
	}
}
