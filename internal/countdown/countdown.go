// Package countdown implements a pausable lesson timer driven by scheduled
// Bubble Tea messages.
//
// The timer never reads the wall clock. Each TickMsg subtracts exactly one
// Interval, so a paused timer cannot drift and a virtual scheduler can drive
// it deterministically in tests.
package countdown

import (
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codiz/internal/a11y"
	"github.com/abhisek/codiz/internal/logger"
	"github.com/abhisek/codiz/internal/sched"
)

// ExpiredText is announced when the timer reaches zero with milestones on.
const ExpiredText = "Time's up"

var timerIDs atomic.Uint64

// Event is what a handled message meant for the owner.
type Event int

const (
	EventNone Event = iota
	EventTick
	EventExpired
)

// TickMsg advances a running countdown by one interval.
type TickMsg struct {
	TimerID uint64
	Gen     uint64
}

// Countdown counts from a duration down to zero.
type Countdown struct {
	id  uint64
	gen uint64

	cfg       Config
	sched     sched.Scheduler
	announcer a11y.Announcer
	log       *logger.Logger

	duration   time.Duration
	remaining  time.Duration
	running    bool
	stopped    bool
	expired    bool
	milestones bool
	fired      map[int]bool
}

// New creates a stopped countdown. announcer may be nil when milestones are
// never enabled.
func New(cfg Config, s sched.Scheduler, announcer a11y.Announcer, log *logger.Logger) *Countdown {
	if announcer == nil {
		announcer = a11y.AnnouncerFunc(func(string) {})
	}
	return &Countdown{
		id:        timerIDs.Add(1),
		cfg:       cfg.withDefaults(),
		sched:     sched.Default(s),
		announcer: announcer,
		log:       logger.OrNop(log),
		fired:     map[int]bool{},
	}
}

func (c *Countdown) ID() uint64               { return c.id }
func (c *Countdown) Gen() uint64              { return c.gen }
func (c *Countdown) Duration() time.Duration  { return c.duration }
func (c *Countdown) Remaining() time.Duration { return c.remaining }
func (c *Countdown) Elapsed() time.Duration   { return c.duration - c.remaining }
func (c *Countdown) Running() bool            { return c.running }
func (c *Countdown) Expired() bool            { return c.expired }
func (c *Countdown) MilestonesEnabled() bool  { return c.milestones }
func (c *Countdown) Interval() time.Duration  { return c.cfg.Interval }

// Fraction is remaining/duration in [0, 1].
func (c *Countdown) Fraction() float64 {
	if c.duration <= 0 {
		return 0
	}
	return float64(c.remaining) / float64(c.duration)
}

// Low reports whether the remaining fraction is under the warning threshold.
func (c *Countdown) Low() bool {
	return c.Fraction() < c.cfg.LowFraction
}

// Arm resets the timer to d without starting it.
func (c *Countdown) Arm(d time.Duration) {
	c.reset(d)
	c.running = false
	c.log.Debug("countdown armed", "timer", c.id, "duration", d)
}

// Start resets the timer to d and starts ticking.
func (c *Countdown) Start(d time.Duration) tea.Cmd {
	c.reset(d)
	if d <= 0 {
		c.running = false
		c.expired = true
		return nil
	}
	c.running = true
	c.log.Debug("countdown started", "timer", c.id, "duration", d)
	return c.tick()
}

// Pause stops ticking and discards the in-flight tick. Pausing a paused
// timer is a no-op.
func (c *Countdown) Pause() {
	if !c.running {
		return
	}
	c.running = false
	c.gen++
	c.log.Debug("countdown paused", "timer", c.id, "remaining", c.remaining)
}

// Resume continues from the remaining time. Resuming a running or expired
// timer is a no-op.
func (c *Countdown) Resume() tea.Cmd {
	if c.running || c.stopped || c.expired || c.remaining <= 0 {
		return nil
	}
	c.running = true
	c.gen++
	c.log.Debug("countdown resumed", "timer", c.id, "remaining", c.remaining)
	return c.tick()
}

// Stop halts the timer for good; only Start or Arm revive it.
func (c *Countdown) Stop() {
	c.running = false
	c.stopped = true
	c.gen++
}

// SetMilestones turns spoken milestones on or off. Marks already behind the
// current remaining time are not announced late.
func (c *Countdown) SetMilestones(on bool) {
	if on && !c.milestones {
		c.premark(c.remaining)
	}
	c.milestones = on
}

// Update handles the timer's own TickMsg. EventExpired is returned at most
// once per Start or Arm.
func (c *Countdown) Update(msg tea.Msg) (Event, tea.Cmd) {
	t, ok := msg.(TickMsg)
	if !ok || t.TimerID != c.id || t.Gen != c.gen || !c.running {
		return EventNone, nil
	}

	c.remaining -= c.cfg.Interval
	if c.remaining < 0 {
		c.remaining = 0
	}

	if c.remaining > 0 {
		c.announceMilestone()
		return EventTick, c.tick()
	}

	c.running = false
	if c.expired {
		return EventTick, nil
	}
	c.expired = true
	c.announceMilestone()
	if c.milestones {
		c.announcer.Announce(ExpiredText)
	}
	c.log.Debug("countdown expired", "timer", c.id, "duration", c.duration)
	return EventExpired, nil
}

// Owns reports whether msg is a tick addressed to this timer.
func (c *Countdown) Owns(msg tea.Msg) bool {
	t, ok := msg.(TickMsg)
	return ok && t.TimerID == c.id
}

func (c *Countdown) reset(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.gen++
	c.duration = d
	c.remaining = d
	c.expired = false
	c.stopped = false
	c.fired = map[int]bool{}
	c.premark(d)
}

// premark flags every milestone whose second is already showing at r.
func (c *Countdown) premark(r time.Duration) {
	shown := int(r / time.Second)
	for _, m := range c.cfg.Milestones {
		if m >= shown {
			c.fired[m] = true
		}
	}
}

// announceMilestone speaks every mark crossed since the last tick, highest
// first. A tick longer than a second can cross several.
func (c *Countdown) announceMilestone() {
	shown := int(c.remaining / time.Second)
	var hit []int
	for _, m := range c.cfg.Milestones {
		if !c.fired[m] && m >= shown && m > 0 {
			c.fired[m] = true
			hit = append(hit, m)
		}
	}
	if !c.milestones {
		return
	}
	sort.Sort(sort.Reverse(sort.IntSlice(hit)))
	for _, m := range hit {
		c.announcer.Announce(MilestoneText(m))
	}
}

func (c *Countdown) tick() tea.Cmd {
	return c.sched.After(c.cfg.Interval, TickMsg{TimerID: c.id, Gen: c.gen})
}

// MilestoneText is what is spoken at a whole-second mark.
func MilestoneText(sec int) string {
	if sec > 5 {
		return fmt.Sprintf("%d seconds left", sec)
	}
	return strconv.Itoa(sec)
}

// Format renders d as m:ss, flooring to whole seconds.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
