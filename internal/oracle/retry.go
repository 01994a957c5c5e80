package oracle

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Complete(ctx context.Context, prompt Prompt) (*Reply, error) {
	var lastErr error
	badReplyRetried := false

	for attempt := range r.config.MaxAttempts {
		reply, err := r.inner.Complete(ctx, prompt)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if !r.shouldRetry(err, &badReplyRetried) {
			return nil, err
		}

		// Last attempt, no point sleeping before returning the error.
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.backoff(attempt, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// shouldRetry determines if an error is retryable.
func (r *RetryProvider) shouldRetry(err error, badReplyRetried *bool) bool {
	// Context errors are never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Truncation is a configuration issue, not transient.
	var trunc *ErrTruncated
	if errors.As(err, &trunc) {
		return false
	}

	// A malformed reply gets exactly one retry.
	var bad *ErrBadReply
	if errors.As(err, &bad) {
		if *badReplyRetried {
			return false
		}
		*badReplyRetried = true
		return true
	}

	// Throttling and unavailability are retryable, as is anything else
	// (network errors and the like are treated as transient).
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	// Respect RetryAfter when throttled.
	var th *ErrThrottled
	if errors.As(err, &th) && th.RetryAfter > 0 {
		return th.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// ±20% jitter.
	jitter := wait * 0.2 * (2*rand.Float64() - 1)
	wait += jitter

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
