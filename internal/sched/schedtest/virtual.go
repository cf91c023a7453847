// Package schedtest provides a deterministic, virtual-time Scheduler for tests.
package schedtest

import (
	"container/heap"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codiz/internal/sched"
)

// Virtual records scheduled messages on a virtual clock. After never returns
// a command; tests pull due messages with Step, RunFor or RunUntilIdle and
// feed them to the component under test.
type Virtual struct {
	now    time.Duration
	seq    int
	events eventHeap
}

var _ sched.Scheduler = (*Virtual)(nil)

// New creates a Virtual scheduler at time zero.
func New() *Virtual {
	return &Virtual{}
}

// After enqueues msg at now+d.
func (v *Virtual) After(d time.Duration, msg tea.Msg) tea.Cmd {
	if d < 0 {
		d = 0
	}
	v.seq++
	heap.Push(&v.events, event{at: v.now + d, seq: v.seq, msg: msg})
	return nil
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Duration {
	return v.now
}

// Pending returns the number of undelivered messages.
func (v *Virtual) Pending() int {
	return v.events.Len()
}

// Advance moves the clock forward without delivering anything.
func (v *Virtual) Advance(d time.Duration) {
	v.now += d
}

// Step pops the earliest message, advancing the clock to its due time.
func (v *Virtual) Step() (tea.Msg, bool) {
	if v.events.Len() == 0 {
		return nil, false
	}
	e := heap.Pop(&v.events).(event)
	if e.at > v.now {
		v.now = e.at
	}
	return e.msg, true
}

// RunFor delivers every message due within d of the current time, in order,
// including ones scheduled while delivering. The clock ends at now+d.
func (v *Virtual) RunFor(d time.Duration, deliver func(tea.Msg)) int {
	deadline := v.now + d
	n := 0
	for v.events.Len() > 0 && v.events[0].at <= deadline {
		msg, _ := v.Step()
		deliver(msg)
		n++
	}
	v.now = deadline
	return n
}

// RunUntilIdle delivers messages until none remain or limit is reached.
func (v *Virtual) RunUntilIdle(limit int, deliver func(tea.Msg)) int {
	n := 0
	for n < limit {
		msg, ok := v.Step()
		if !ok {
			break
		}
		deliver(msg)
		n++
	}
	return n
}

type event struct {
	at  time.Duration
	seq int
	msg tea.Msg
}

type eventHeap []event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].at == h[j].at {
		return h[i].seq < h[j].seq
	}
	return h[i].at < h[j].at
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(event)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
