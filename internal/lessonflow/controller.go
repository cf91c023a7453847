// Package lessonflow coordinates screen reader narration, the interaction
// gate, and the lesson countdown for one screen at a time.
//
// A Controller owns one Queue, one Gate and one Countdown. Every deferred
// message it or its collaborators schedule carries an owner id and a
// generation; Load and Unmount bump the generation so nothing from an earlier
// content unit or a dismissed screen can touch the current state.
package lessonflow

import (
	"context"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codiz/internal/a11y"
	"github.com/abhisek/codiz/internal/countdown"
	"github.com/abhisek/codiz/internal/logger"
	"github.com/abhisek/codiz/internal/sched"
)

var controllerIDs atomic.Uint64

// ScreenReader is the part of a11y.Monitor the controller needs. Active is
// the last known state and must not block.
type ScreenReader interface {
	Probe(ctx context.Context) bool
	Active() bool
}

// Unit is one narrated piece of content: a flashcard, a quiz question, a
// stats card.
type Unit struct {
	Script a11y.Script

	// Timer is the countdown length. Zero means untimed.
	Timer time.Duration
}

// Label is the overlay text shown while the gate is closed.
func (u Unit) Label() string {
	return u.Script.Text()
}

// ProbedMsg carries the screen reader state into the loop after Mount.
type ProbedMsg struct {
	ControllerID uint64
	Gen          uint64
	Active       bool
}

// DeferredMsg is a delayed controller-scoped action identified by Tag.
type DeferredMsg struct {
	ControllerID uint64
	Gen          uint64
	Tag          string
}

// Deps are the collaborators shared by every controller in the app.
type Deps struct {
	Monitor   ScreenReader
	Announcer a11y.Announcer
	Sched     sched.Scheduler
	A11y      a11y.Config
	Countdown countdown.Config
	Log       *logger.Logger
}

// Controller is the per-screen state machine.
type Controller struct {
	id  uint64
	gen uint64

	deps  Deps
	log   *logger.Logger
	queue *a11y.Queue
	gate  *a11y.Gate
	timer *countdown.Countdown

	state     State
	unit      Unit
	probed    bool
	reader    bool
	held      bool
	unmounted bool
}

// NewController builds a controller in StateInit.
func NewController(d Deps) *Controller {
	d.Sched = sched.Default(d.Sched)
	if d.A11y == (a11y.Config{}) {
		d.A11y = a11y.DefaultConfig()
	}
	log := logger.OrNop(d.Log)
	ann := d.Announcer
	if ann == nil {
		ann = a11y.AnnouncerFunc(func(string) {})
	}
	d.Announcer = ann
	return &Controller{
		id:    controllerIDs.Add(1),
		deps:  d,
		log:   log,
		queue: a11y.NewQueue(ann, d.A11y, d.Sched, log),
		gate:  a11y.NewGate(false),
		timer: countdown.New(d.Countdown, d.Sched, ann, log),
	}
}

func (c *Controller) ID() uint64                  { return c.id }
func (c *Controller) State() State                { return c.state }
func (c *Controller) Unit() Unit                  { return c.unit }
func (c *Controller) Gate() *a11y.Gate            { return c.gate }
func (c *Controller) Timer() *countdown.Countdown { return c.timer }
func (c *Controller) QueueState() a11y.QueueState { return c.queue.State() }
func (c *Controller) ScreenReaderActive() bool    { return c.reader }
func (c *Controller) Held() bool                  { return c.held }
func (c *Controller) Interactive() bool           { return c.state == StateRunning && !c.gate.IsBlocked() }

// Mount starts the lifecycle for u. The screen reader probe runs off the
// loop and reports back with ProbedMsg; when the monitor already knows a
// reader is active the gate closes now so the first frame is the overlay.
func (c *Controller) Mount(u Unit) tea.Cmd {
	c.gen++
	c.unmounted = false
	c.unit = u
	c.setState(StateInit)
	c.closeIfKnownActive()
	return c.probe()
}

func (c *Controller) closeIfKnownActive() {
	if c.deps.Monitor != nil && c.deps.Monitor.Active() && !c.unit.Script.Empty() {
		c.gate.Close(c.unit.Label())
	}
}

func (c *Controller) probe() tea.Cmd {
	id, gen, mon := c.id, c.gen, c.deps.Monitor
	return func() tea.Msg {
		active := false
		if mon != nil {
			active = mon.Probe(context.Background())
		}
		return ProbedMsg{ControllerID: id, Gen: gen, Active: active}
	}
}

// Load swaps in a new content unit. In-flight narration, countdown and
// deferred messages from the previous unit are cancelled first.
func (c *Controller) Load(u Unit) tea.Cmd {
	if c.unmounted {
		return nil
	}
	c.gen++
	c.queue.Cancel()
	c.timer.Stop()
	c.unit = u
	if !c.probed {
		c.setState(StateInit)
		c.closeIfKnownActive()
		return c.probe()
	}
	if c.held {
		c.park()
		return nil
	}
	return c.enter()
}

// Hold freezes the flow behind a dialog: narration stops, the countdown
// pauses, and nothing moves on to Running until Release.
func (c *Controller) Hold() {
	if c.held || c.unmounted {
		return
	}
	c.held = true
	switch c.state {
	case StateNarrating:
		c.queue.Cancel()
	case StateRunning:
		c.timer.Pause()
	}
	c.log.Debug("lesson flow held", "controller", c.id, "state", c.state.String())
}

// Release undoes Hold. Interrupted narration starts again from the first
// step; a running countdown resumes where it paused.
func (c *Controller) Release() tea.Cmd {
	if !c.held || c.unmounted {
		return nil
	}
	c.held = false
	c.log.Debug("lesson flow released", "controller", c.id, "state", c.state.String())
	switch c.state {
	case StateNarrating:
		return c.enter()
	case StateReady:
		return c.ready()
	case StateRunning:
		return c.timer.Resume()
	}
	return nil
}

// park prepares the unit without playing or starting anything, for content
// that arrives while held.
func (c *Controller) park() {
	c.timer.Arm(c.unit.Timer)
	if c.reader && !c.unit.Script.Empty() {
		c.setState(StateNarrating)
		c.gate.Close(c.unit.Label())
		return
	}
	c.setState(StateReady)
}

// Unmount cancels everything the controller scheduled. It is safe to call
// from any state and more than once.
func (c *Controller) Unmount() {
	c.gen++
	c.unmounted = true
	c.held = false
	c.queue.Cancel()
	c.timer.Stop()
	c.gate.Open()
	c.log.Debug("lesson flow unmounted", "controller", c.id, "state", c.state.String())
}

// Update routes probe, queue, countdown and deferred messages. Anything not
// addressed to this controller returns EventNone.
func (c *Controller) Update(msg tea.Msg) (Event, tea.Cmd) {
	if c.unmounted {
		return EventNone, nil
	}

	switch msg := msg.(type) {
	case ProbedMsg:
		if msg.ControllerID != c.id || msg.Gen != c.gen || c.state != StateInit {
			return EventNone, nil
		}
		c.probed = true
		c.reader = msg.Active
		c.timer.SetMilestones(msg.Active)
		if c.held {
			c.park()
			return EventNone, nil
		}
		return c.entered(c.enter())

	case DeferredMsg:
		if msg.ControllerID != c.id || msg.Gen != c.gen {
			c.log.Debug("stale deferred message dropped", "controller", c.id, "tag", msg.Tag)
			return EventNone, nil
		}
		return EventDeferred, nil

	case a11y.ScreenReaderChangedMsg:
		return c.SetScreenReader(msg.Active)
	}

	if c.queue.Owns(msg) {
		done, cmd := c.queue.Update(msg)
		if done && c.state == StateNarrating && !c.held {
			return EventRunning, c.ready()
		}
		return EventNone, cmd
	}

	if c.timer.Owns(msg) {
		ev, cmd := c.timer.Update(msg)
		switch ev {
		case countdown.EventTick:
			return EventTick, cmd
		case countdown.EventExpired:
			if c.state != StateRunning {
				return EventNone, nil
			}
			return EventExpired, nil
		}
	}
	return EventNone, nil
}

// SetScreenReader applies a mid-screen screen reader change. Turning it off
// while narrating skips straight to Running; turning it on while running
// only enables countdown milestones.
func (c *Controller) SetScreenReader(active bool) (Event, tea.Cmd) {
	if c.unmounted || c.reader == active {
		return EventNone, nil
	}
	c.reader = active
	c.timer.SetMilestones(active)
	c.log.Debug("screen reader changed", "controller", c.id, "active", active, "state", c.state.String())

	if !active && c.state == StateNarrating {
		c.queue.Cancel()
		if c.held {
			c.setState(StateReady)
			return EventNone, nil
		}
		return EventRunning, c.ready()
	}
	return EventNone, nil
}

// Finish moves to a terminal state and stops the countdown where it is.
func (c *Controller) Finish(s State) {
	if !s.Terminal() || c.state.Terminal() {
		return
	}
	c.queue.Cancel()
	c.timer.Pause()
	c.gate.Open()
	c.setState(s)
}

// After schedules a DeferredMsg with tag. It is dropped if the unit changes
// or the screen unmounts before it is due.
func (c *Controller) After(d time.Duration, tag string) tea.Cmd {
	return c.deps.Sched.After(d, DeferredMsg{ControllerID: c.id, Gen: c.gen, Tag: tag})
}

// Announce speaks text when a screen reader is active.
func (c *Controller) Announce(text string) {
	if !c.reader || c.unmounted || text == "" {
		return
	}
	c.deps.Announcer.Announce(text)
}

// Elapsed is the time spent on the running countdown.
func (c *Controller) Elapsed() time.Duration {
	return c.timer.Elapsed()
}

// enter narrates the unit when a reader is active, otherwise goes straight
// to Running.
func (c *Controller) enter() tea.Cmd {
	if c.reader && !c.unit.Script.Empty() {
		c.setState(StateNarrating)
		c.gate.Close(c.unit.Label())
		c.timer.Arm(c.unit.Timer)
		return c.queue.Play(c.unit.Script)
	}
	return c.ready()
}

// entered reports EventRunning when enter went straight through Ready.
func (c *Controller) entered(cmd tea.Cmd) (Event, tea.Cmd) {
	if c.state == StateRunning {
		return EventRunning, cmd
	}
	return EventNone, cmd
}

func (c *Controller) ready() tea.Cmd {
	c.setState(StateReady)
	c.gate.Open()
	var cmd tea.Cmd
	if c.unit.Timer > 0 {
		cmd = c.timer.Start(c.unit.Timer)
	}
	c.setState(StateRunning)
	return cmd
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}
	c.log.Debug("lesson flow state", "controller", c.id, "from", c.state.String(), "to", s.String())
	c.state = s
}
