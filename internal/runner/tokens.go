package runner

import "context"

// TokenPool bounds the number of concurrently outstanding requests with a
// fixed pool of interchangeable tokens, one per virtual user. A nil pool
// admits everything, which is the open-loop discipline.
type TokenPool struct {
	tokens chan struct{}
}

// NewTokenPool creates a pool of n tokens; n <= 0 returns the nil (open
// loop) pool.
func NewTokenPool(n int) *TokenPool {
	if n <= 0 {
		return nil
	}
	p := &TokenPool{tokens: make(chan struct{}, n)}
	for i := 0; i < n; i++ {
		p.tokens <- struct{}{}
	}
	return p
}

// Acquire takes a token before a request is issued, suspending while the
// pool is exhausted. Blocking here is what makes closed-loop load degrade
// gracefully under a saturated target.
func (p *TokenPool) Acquire(ctx context.Context) error {
	if p == nil {
		return nil
	}
	select {
	case <-p.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a token after the request completed, success or not. The
// return is best-effort: once the run is tearing down a failed return is not
// an error.
func (p *TokenPool) Release() {
	if p == nil {
		return
	}
	select {
	case p.tokens <- struct{}{}:
	default:
	}
}

// Size is the configured pool capacity, 0 for the open-loop pool.
func (p *TokenPool) Size() int {
	if p == nil {
		return 0
	}
	return cap(p.tokens)
}

// Available is the number of idle tokens.
func (p *TokenPool) Available() int {
	if p == nil {
		return 0
	}
	return len(p.tokens)
}
