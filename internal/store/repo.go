package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by KVRepo.Get for a missing key.
var ErrNotFound = errors.New("store: not found")

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit    int       // max results (0 = unlimited)
	After    int64     // sequence > After
	Before   int64     // sequence < Before
	From     time.Time // timestamp >= From
	To       time.Time // timestamp <= To
	CourseID string    // exact course match when set
}

// KVRepo is a small string key/value table.
type KVRepo interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// LessonResult is one finished quiz attempt.
type LessonResult struct {
	ID           string
	Sequence     int64
	Timestamp    time.Time
	CourseID     string
	Lesson       int
	Correct      int    // aciertos
	Errors       int    // errores
	Speed        string // rapidez, e.g. "12s"
	Expired      bool
	ScreenReader bool
	XP           int
}

// LessonStats aggregates lesson results.
type LessonStats struct {
	Attempts int
	Correct  int
	Errors   int
	Expired  int
	XP       int
}

// LessonRepo records and reads finished lessons.
type LessonRepo interface {
	// Append stores r, assigning ID, Sequence and Timestamp when unset.
	Append(ctx context.Context, r *LessonResult) error

	// List returns results ordered by sequence, newest first.
	List(ctx context.Context, opts QueryOpts) ([]LessonResult, error)

	// Stats sums every result matching opts.
	Stats(ctx context.Context, opts QueryOpts) (LessonStats, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage totals LLM request events.
type LLMUsage struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// ListLLMRequests returns events newest first. Only Limit, After,
	// Before, From and To apply.
	ListLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// LLMUsage sums recorded requests.
	LLMUsage(ctx context.Context) (LLMUsage, error)
}
