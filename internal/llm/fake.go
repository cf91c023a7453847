package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Reply is one canned answer for Fake.
type Reply struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// Fake replays canned replies in order and records requests. With no
// replies left it reports ErrProviderUnavailable.
type Fake struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Request
}

// NewFake queues replies.
func NewFake(replies ...Reply) *Fake {
	return &Fake{replies: replies}
}

func (f *Fake) Model() string { return "fake" }

func (f *Fake) Generate(_ context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, req)
	if len(f.replies) == 0 {
		return nil, &Error{Kind: ErrProviderUnavailable, Provider: "fake"}
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	if err := checkOutput("fake", req, r.Content); err != nil {
		return nil, err
	}
	return &Response{Content: r.Content, Usage: r.Usage, Model: "fake", StopReason: StopEnd}, nil
}

// Push queues another reply.
func (f *Fake) Push(r Reply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, r)
}

// Calls returns a copy of every request received.
func (f *Fake) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.calls...)
}
