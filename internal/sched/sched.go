// Package sched turns deferred work into Bubble Tea messages.
//
// Every timer in the lesson flow (narration steps, countdown ticks, grace
// delays) is expressed as "deliver this message after d". Nothing mutates state
// from a timer goroutine; the message is handled in Update like any other.
package sched

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// Scheduler delivers msg to the program after d has elapsed.
type Scheduler interface {
	After(d time.Duration, msg tea.Msg) tea.Cmd
}

// Tick is the production Scheduler backed by tea.Tick.
type Tick struct{}

var _ Scheduler = Tick{}

// After returns a command that yields msg after d. A non-positive d yields the
// message on the next loop iteration.
func (Tick) After(d time.Duration, msg tea.Msg) tea.Cmd {
	if d <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return msg
	})
}

// Default returns s, or Tick when s is nil.
func Default(s Scheduler) Scheduler {
	if s == nil {
		return Tick{}
	}
	return s
}
