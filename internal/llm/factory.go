package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/codiz/internal/logger"
	"github.com/abhisek/codiz/internal/store"
)

// ErrDisabled is returned by New when no provider is configured.
var ErrDisabled = errors.New("llm: no provider configured")

// New builds the configured provider wrapped as
// timeout -> rate limit -> retry -> recorder -> SDK.
func New(ctx context.Context, cfg Config, events store.EventRepo, log *logger.Logger) (Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrDisabled
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	pc := cfg.Selected()
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropic(pc)
	case ProviderOpenAI:
		base, err = NewOpenAI(pc)
	case ProviderOpenRouter:
		base, err = NewOpenRouter(pc)
	case ProviderGemini:
		base, err = NewGemini(ctx, pc)
	case ProviderFake:
		base = NewFake()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	p := WithRecorder(base, cfg.Provider, events, log)
	p = WithRetry(p, cfg.Retry, log)
	p = WithRateLimit(p, NewLimiter(cfg.Rate))
	return WithTimeout(p, cfg.Timeout), nil
}
