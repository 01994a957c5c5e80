package oracle

import (
	"context"
	"fmt"

	"github.com/dailytutor/dailytutor/internal/pkg/logger"
)

// New creates a Provider from configuration, wrapped with the standard
// middleware chain: caller, timeout, retry, logging, backend.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Backend {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown oracle backend: %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s backend: %w", cfg.Backend, err)
	}

	return WithTimeout(WithRetry(WithLogging(base, log), cfg.Retry), cfg.Timeout), nil
}
