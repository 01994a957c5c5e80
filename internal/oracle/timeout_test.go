package oracle

import (
	"context"
	"errors"
	"testing"
	"time"
)

// blockingProvider waits for the context to end before giving up.
type blockingProvider struct{}

func (b *blockingProvider) Complete(ctx context.Context, _ Prompt) (*Reply, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (b *blockingProvider) ModelID() string { return "blocking" }

func TestTimeout_BoundsSlowRequests(t *testing.T) {
	p := WithTimeout(&blockingProvider{}, 5*time.Millisecond)

	start := time.Now()
	_, err := p.Complete(context.Background(), Prompt{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("elapsed = %v, want the deadline to cut the request short", elapsed)
	}
}

func TestTimeout_BoundsRetriesToo(t *testing.T) {
	mock := NewMockProvider(
		CannedReply{Err: &ErrThrottled{RetryAfter: time.Minute}},
	)
	p := WithTimeout(WithRetry(mock, fastRetryConfig()), 5*time.Millisecond)

	// The throttle asks for a minute-long backoff; the deadline fires
	// during the wait instead.
	start := time.Now()
	_, err := p.Complete(context.Background(), Prompt{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("elapsed = %v, want the deadline to cut the backoff short", elapsed)
	}
	if mock.Calls() != 1 {
		t.Errorf("calls = %d, want 1", mock.Calls())
	}
}

func TestTimeout_ZeroDisables(t *testing.T) {
	mock := NewMockProvider()
	if p := WithTimeout(mock, 0); p != Provider(mock) {
		t.Error("a non-positive timeout should return the provider unchanged")
	}
}
