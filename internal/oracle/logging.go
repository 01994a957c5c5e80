package oracle

import (
	"context"
	"time"

	"github.com/dailytutor/dailytutor/internal/pkg/logger"
)

// LoggingProvider is a decorator that logs every oracle request with its
// purpose label, latency and token usage.
type LoggingProvider struct {
	inner Provider
	log   *logger.Logger
}

// WithLogging wraps a Provider with request logging.
func WithLogging(p Provider, log *logger.Logger) Provider {
	return &LoggingProvider{inner: p, log: log.With("component", "oracle")}
}

func (l *LoggingProvider) Complete(ctx context.Context, prompt Prompt) (*Reply, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	reply, err := l.inner.Complete(ctx, prompt)

	latency := time.Since(start)

	if err != nil {
		l.log.Warn("oracle request failed",
			"purpose", purpose,
			"model", l.inner.ModelID(),
			"latency_ms", latency.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	l.log.Debug("oracle request completed",
		"purpose", purpose,
		"model", reply.Model,
		"latency_ms", latency.Milliseconds(),
		"input_tokens", reply.Usage.InputTokens,
		"output_tokens", reply.Usage.OutputTokens,
		"stop_reason", reply.StopReason,
	)

	return reply, nil
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
