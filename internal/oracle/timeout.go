package oracle

import (
	"context"
	"time"
)

// TimeoutProvider is a decorator that bounds each request with a
// deadline. Placed outside the retry decorator so the budget covers the
// whole attempt sequence, not one attempt.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider with a per-request deadline. A
// non-positive timeout returns the Provider unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Complete(ctx context.Context, prompt Prompt) (*Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Complete(ctx, prompt)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
