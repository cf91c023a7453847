package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"

	"github.com/abhisek/codiz/internal/logger"
	"github.com/abhisek/codiz/internal/store"
)

// sleep waits for d or until ctx ends. Tests replace it.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type retrying struct {
	inner Provider
	cfg   RetryConfig
	log   *logger.Logger
}

// WithRetry retries rate limits, outages and one invalid response with
// jittered exponential backoff.
func WithRetry(p Provider, cfg RetryConfig, log *logger.Logger) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retrying{inner: p, cfg: cfg, log: logger.OrNop(log)}
}

func (r *retrying) Model() string { return r.inner.Model() }

func (r *retrying) Generate(ctx context.Context, req Request) (*Response, error) {
	var err error
	invalidSeen := false
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err, &invalidSeen) || attempt == r.cfg.MaxAttempts-1 {
			break
		}
		wait := r.backoff(attempt, err)
		r.log.Warn("llm request failed, retrying", "attempt", attempt+1, "wait", wait, "error", err)
		if serr := sleep(ctx, wait); serr != nil {
			return nil, serr
		}
	}
	return nil, err
}

func retryable(err error, invalidSeen *bool) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, ErrTruncated):
		return false
	case errors.Is(err, ErrInvalidResponse):
		if *invalidSeen {
			return false
		}
		*invalidSeen = true
		return true
	}
	return true
}

func (r *retrying) backoff(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	wait := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	wait = math.Min(wait, float64(r.cfg.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}

type recording struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	log      *logger.Logger
}

// WithRecorder stores one usage event per call. Recording failures are
// logged, never returned.
func WithRecorder(p Provider, provider string, repo store.EventRepo, log *logger.Logger) Provider {
	return &recording{inner: p, provider: provider, repo: repo, log: logger.OrNop(log)}
}

func (r *recording) Model() string { return r.inner.Model() }

func (r *recording) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := r.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:  r.provider,
		Model:     r.inner.Model(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		ev.Model = resp.Model
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	r.log.Debug("llm request", "provider", ev.Provider, "model", ev.Model, "purpose", ev.Purpose,
		"latency_ms", ev.LatencyMs, "ok", ev.Success)

	if r.repo != nil {
		if rerr := r.repo.AppendLLMRequest(context.WithoutCancel(ctx), ev); rerr != nil {
			r.log.Warn("failed to record llm request", "error", rerr)
		}
	}
	return resp, err
}

type timed struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout bounds each Generate call.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &timed{inner: p, timeout: d}
}

func (t *timed) Model() string { return t.inner.Model() }

func (t *timed) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

type limited struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit makes each Generate call wait for a token from l. A nil
// limiter disables the limit.
func WithRateLimit(p Provider, l *rate.Limiter) Provider {
	if l == nil {
		return p
	}
	return &limited{inner: p, limiter: l}
}

func (l *limited) Model() string { return l.inner.Model() }

func (l *limited) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, &Error{Kind: ErrRateLimit, Provider: "local", Err: err}
	}
	return l.inner.Generate(ctx, req)
}

// NewLimiter builds a limiter from the rate settings, or nil when the
// rate is unlimited.
func NewLimiter(cfg RateConfig) *rate.Limiter {
	if cfg.PerMinute <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.PerMinute)), burst)
}
