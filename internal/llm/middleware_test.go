package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/abhisek/codiz/internal/store"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	}
}

// noSleep records waits instead of blocking.
func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var waits []time.Duration
	orig := sleep
	sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	t.Cleanup(func() { sleep = orig })
	return &waits
}

func unavailable() error {
	return &Error{Kind: ErrProviderUnavailable, Provider: "fake", Err: errors.New("down")}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	noSleep(t)
	fake := NewFake(Reply{Content: json.RawMessage(`{"ok":true}`)})

	resp, err := WithRetry(fake, retryConfig(), nil).Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"ok":true}` {
		t.Fatalf("unexpected content: %s", resp.Content)
	}
	if n := len(fake.Calls()); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	waits := noSleep(t)
	fake := NewFake(
		Reply{Err: unavailable()},
		Reply{Content: json.RawMessage(`{"ok":true}`)},
	)

	if _, err := WithRetry(fake, retryConfig(), nil).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(fake.Calls()); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
	if len(*waits) != 1 {
		t.Fatalf("expected 1 wait, got %d", len(*waits))
	}
	if w := (*waits)[0]; w < 80*time.Millisecond || w > 120*time.Millisecond {
		t.Fatalf("first wait %s outside jitter range", w)
	}
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	noSleep(t)
	fake := NewFake(Reply{Err: unavailable()}, Reply{Err: unavailable()}, Reply{Err: unavailable()})

	_, err := WithRetry(fake, retryConfig(), nil).Generate(context.Background(), Request{})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if n := len(fake.Calls()); n != 3 {
		t.Fatalf("expected 3 calls, got %d", n)
	}
}

func TestRetry_TruncatedNotRetried(t *testing.T) {
	noSleep(t)
	fake := NewFake(Reply{Err: &Error{Kind: ErrTruncated, Provider: "fake"}})

	_, err := WithRetry(fake, retryConfig(), nil).Generate(context.Background(), Request{})
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if n := len(fake.Calls()); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	noSleep(t)
	invalid := invalidResponse("fake", json.RawMessage(`{}`), errors.New("bad"))
	fake := NewFake(Reply{Err: invalid}, Reply{Err: invalid}, Reply{Content: json.RawMessage(`{}`)})

	_, err := WithRetry(fake, retryConfig(), nil).Generate(context.Background(), Request{})
	if !errors.Is(err, ErrInvalidResponse) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
	if n := len(fake.Calls()); n != 2 {
		t.Fatalf("expected 2 calls, got %d", n)
	}
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	waits := noSleep(t)
	fake := NewFake(
		Reply{Err: &Error{Kind: ErrRateLimit, Provider: "fake", RetryAfter: 7 * time.Second}},
		Reply{Content: json.RawMessage(`{}`)},
	)

	if _, err := WithRetry(fake, retryConfig(), nil).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (*waits)[0] != 7*time.Second {
		t.Fatalf("expected 7s wait, got %s", (*waits)[0])
	}
}

func TestRetry_CancelledContextStops(t *testing.T) {
	orig := sleep
	t.Cleanup(func() { sleep = orig })
	sleep = func(ctx context.Context, _ time.Duration) error { return context.Canceled }

	fake := NewFake(Reply{Err: unavailable()}, Reply{Content: json.RawMessage(`{}`)})
	_, err := WithRetry(fake, retryConfig(), nil).Generate(context.Background(), Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n := len(fake.Calls()); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

type mockEventRepo struct {
	events []store.LLMRequestEventData
	err    error
}

func (m *mockEventRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	m.events = append(m.events, data)
	return m.err
}

func (m *mockEventRepo) ListLLMRequests(context.Context, store.QueryOpts) ([]store.LLMRequestEvent, error) {
	return nil, nil
}

func (m *mockEventRepo) LLMUsage(context.Context) (store.LLMUsage, error) {
	return store.LLMUsage{}, nil
}

func TestRecorder_RecordsSuccessAndFailure(t *testing.T) {
	repo := &mockEventRepo{}
	fake := NewFake(
		Reply{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 10, OutputTokens: 4}},
		Reply{Err: unavailable()},
	)
	p := WithRecorder(fake, "fake", repo, nil)
	ctx := WithPurpose(context.Background(), "practice-quiz")

	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}

	if len(repo.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(repo.events))
	}
	ok, failed := repo.events[0], repo.events[1]
	if !ok.Success || ok.InputTokens != 10 || ok.OutputTokens != 4 || ok.Purpose != "practice-quiz" {
		t.Fatalf("unexpected success event: %+v", ok)
	}
	if failed.Success || failed.ErrorMessage == "" {
		t.Fatalf("unexpected failure event: %+v", failed)
	}
}

func TestRecorder_StoreFailureIsNotFatal(t *testing.T) {
	repo := &mockEventRepo{err: errors.New("disk full")}
	fake := NewFake(Reply{Content: json.RawMessage(`{}`)})

	if _, err := WithRecorder(fake, "fake", repo, nil).Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("recording failure leaked: %v", err)
	}
}

func TestTimeout_BoundsCall(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRateLimit_RejectsWhenNoTokenBeforeDeadline(t *testing.T) {
	fake := NewFake(Reply{Content: json.RawMessage(`{}`)}, Reply{Content: json.RawMessage(`{}`)})
	p := WithRateLimit(fake, rate.NewLimiter(rate.Every(time.Hour), 1))

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("first call: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, ErrRateLimit) {
		t.Fatalf("expected ErrRateLimit, got %v", err)
	}
	if n := len(fake.Calls()); n != 1 {
		t.Fatalf("expected provider called once, got %d", n)
	}
}

func TestNewLimiter(t *testing.T) {
	if NewLimiter(RateConfig{}) != nil {
		t.Fatal("zero rate should disable the limiter")
	}
	l := NewLimiter(RateConfig{PerMinute: 6})
	if l == nil || l.Burst() != 1 {
		t.Fatalf("expected burst 1 limiter, got %+v", l)
	}
	if got := l.Limit(); got != rate.Every(10*time.Second) {
		t.Fatalf("limit = %v", got)
	}
}

type blockingProvider struct{}

func (blockingProvider) Model() string { return "block" }

func (blockingProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
