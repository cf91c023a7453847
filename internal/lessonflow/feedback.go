package lessonflow

import (
	tea "charm.land/bubbletea/v2"
)

// XPPerLesson is awarded on every finished quiz.
const XPPerLesson = 50

// FeedbackFlow narrates the stats of a finished lesson. It has no timer.
type FeedbackFlow struct {
	ctl     *Controller
	name    string
	result  Result
	mounted bool
}

// NewFeedbackFlow binds a result and the learner's display name.
func NewFeedbackFlow(ctl *Controller, name string, r Result) *FeedbackFlow {
	return &FeedbackFlow{ctl: ctl, name: name, result: r}
}

func (f *FeedbackFlow) Controller() *Controller { return f.ctl }
func (f *FeedbackFlow) Result() Result          { return f.result }
func (f *FeedbackFlow) Name() string            { return f.name }
func (f *FeedbackFlow) XP() int                 { return XPPerLesson }

func (f *FeedbackFlow) unit() Unit {
	return Unit{Script: FeedbackScript(f.ctl.deps.A11y, f.name, XPPerLesson, f.result)}
}

// Mount narrates the stats.
func (f *FeedbackFlow) Mount() tea.Cmd {
	f.mounted = true
	return f.ctl.Mount(f.unit())
}

// SetName updates the learner name. Before Mount it only changes what Mount
// will narrate; on a mounted flow the narration starts over with the new
// name.
func (f *FeedbackFlow) SetName(name string) tea.Cmd {
	if name == f.name {
		return nil
	}
	f.name = name
	if !f.mounted {
		return nil
	}
	return f.ctl.Load(f.unit())
}

// Unmount cancels pending narration.
func (f *FeedbackFlow) Unmount() {
	f.mounted = false
	f.ctl.Unmount()
}

// Update forwards controller traffic.
func (f *FeedbackFlow) Update(msg tea.Msg) tea.Cmd {
	_, cmd := f.ctl.Update(msg)
	return cmd
}
