package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Failure classes. Match them with errors.Is.
var (
	ErrRateLimit           = errors.New("rate limited")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrInvalidResponse     = errors.New("invalid response")
	ErrTruncated           = errors.New("response truncated at max tokens")
)

// Error is a classified provider failure.
type Error struct {
	Kind       error
	Provider   string
	RetryAfter time.Duration

	// Content is the offending output for ErrInvalidResponse.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("llm %s: %v", e.Provider, e.Kind)
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// fromStatus maps an HTTP status from a provider SDK error.
func fromStatus(provider string, status int, err error) error {
	kind := ErrProviderUnavailable
	if status == http.StatusTooManyRequests {
		kind = ErrRateLimit
	}
	return &Error{Kind: kind, Provider: provider, Err: err}
}

func invalidResponse(provider string, content json.RawMessage, err error) error {
	return &Error{Kind: ErrInvalidResponse, Provider: provider, Content: content, Err: err}
}
