// Package httpclient builds the tuned HTTP client the executor fires
// requests through.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// New returns a client with a per-request timeout and a transport sized for
// sustained concurrent load against a single target. All traffic goes to
// one host, so the per-host idle limit equals the whole pool; splitting it
// would close and redial connections mid-run and fold handshake time into
// the measured latencies.
func New(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = 0
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          512,
		MaxIdleConnsPerHost:   512,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
