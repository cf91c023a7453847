package a11y

import (
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codiz/internal/logger"
	"github.com/abhisek/codiz/internal/sched"
)

var queueIDs atomic.Uint64

// StepDueMsg fires when a scripted step should be spoken.
type StepDueMsg struct {
	QueueID uint64
	Gen     uint64
	Index   int
}

// QueueDoneMsg fires once the estimated narration time of a script has
// elapsed.
type QueueDoneMsg struct {
	QueueID uint64
	Gen     uint64
}

// QueueState is owned by the Queue and reset on every Play.
type QueueState struct {
	CurrentIndex   int
	Running        bool
	EstimatedTotal time.Duration
}

// Queue speaks a Script one step at a time. Only one script is live: Play
// and Cancel bump the generation, and messages from older generations or other
// queues are dropped.
type Queue struct {
	id        uint64
	gen       uint64
	cfg       Config
	announcer Announcer
	sched     sched.Scheduler
	log       *logger.Logger

	script Script
	state  QueueState
}

// NewQueue creates a queue that speaks through announcer.
func NewQueue(announcer Announcer, cfg Config, s sched.Scheduler, log *logger.Logger) *Queue {
	if announcer == nil {
		announcer = AnnouncerFunc(func(string) {})
	}
	return &Queue{
		id:        queueIDs.Add(1),
		cfg:       cfg.withDefaults(),
		announcer: announcer,
		sched:     sched.Default(s),
		log:       logger.OrNop(log),
	}
}

// ID identifies this queue's messages.
func (q *Queue) ID() uint64 { return q.id }

// Gen is the generation of the live script.
func (q *Queue) Gen() uint64 { return q.gen }

// State returns a copy of the playback state.
func (q *Queue) State() QueueState { return q.state }

// Running reports whether a script is still playing.
func (q *Queue) Running() bool { return q.state.Running }

// Play supersedes whatever is playing and starts s. An empty script reports
// done on the next loop iteration.
func (q *Queue) Play(s Script) tea.Cmd {
	if q.state.Running {
		q.log.Debug("narration superseded", "queue", q.id, "at_step", q.state.CurrentIndex)
	}
	q.gen++
	q.script = s
	q.state = QueueState{
		Running:        true,
		EstimatedTotal: Estimate(q.cfg, s),
	}
	q.log.Debug("narration started", "queue", q.id, "steps", s.Len(), "estimate", q.state.EstimatedTotal)

	if s.Empty() {
		return q.sched.After(0, QueueDoneMsg{QueueID: q.id, Gen: q.gen})
	}
	return q.schedule(0)
}

// Cancel drops every pending step of the current script.
func (q *Queue) Cancel() {
	if q.state.Running {
		q.log.Debug("narration cancelled", "queue", q.id, "at_step", q.state.CurrentIndex)
	}
	q.gen++
	q.state.Running = false
}

// Update handles step and done messages. done is true exactly once per
// script that plays to the end.
func (q *Queue) Update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	switch msg := msg.(type) {
	case StepDueMsg:
		if !q.current(msg.QueueID, msg.Gen) || msg.Index != q.state.CurrentIndex {
			return false, nil
		}
		q.announcer.Announce(q.script.Steps[msg.Index].Text)
		q.state.CurrentIndex++
		if q.state.CurrentIndex < q.script.Len() {
			return false, q.schedule(q.state.CurrentIndex)
		}
		return false, q.sched.After(tail(q.cfg, q.script), QueueDoneMsg{QueueID: q.id, Gen: q.gen})

	case QueueDoneMsg:
		if !q.current(msg.QueueID, msg.Gen) {
			return false, nil
		}
		q.state.Running = false
		q.log.Debug("narration finished", "queue", q.id)
		return true, nil
	}
	return false, nil
}

// Owns reports whether msg is a queue message addressed to this queue,
// regardless of generation.
func (q *Queue) Owns(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case StepDueMsg:
		return msg.QueueID == q.id
	case QueueDoneMsg:
		return msg.QueueID == q.id
	}
	return false
}

func (q *Queue) current(id, gen uint64) bool {
	return id == q.id && gen == q.gen && q.state.Running
}

func (q *Queue) schedule(i int) tea.Cmd {
	return q.sched.After(q.script.Steps[i].LeadDelay, StepDueMsg{
		QueueID: q.id,
		Gen:     q.gen,
		Index:   i,
	})
}
