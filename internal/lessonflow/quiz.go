package lessonflow

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codiz/internal/course"
)

const (
	tagFeedback = "quiz.feedback"
	tagExpired  = "quiz.expired"
)

// QuizConfig tunes quiz timing around the countdown.
type QuizConfig struct {
	// FeedbackDelay separates the verify press from the spoken verdict.
	FeedbackDelay time.Duration `yaml:"feedback_delay"`

	// ExpiryGrace lets "Time's up" finish before leaving the screen. Only
	// applied while a screen reader is active.
	ExpiryGrace time.Duration `yaml:"expiry_grace"`
}

// DefaultQuizConfig returns the standard quiz timing.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		FeedbackDelay: 500 * time.Millisecond,
		ExpiryGrace:   time.Second,
	}
}

// QuizFlow drives a timed multiple-choice question.
type QuizFlow struct {
	ctl   *Controller
	cfg   QuizConfig
	title string
	quiz  course.Quiz

	selected  int
	correct   bool
	result    Result
	finished  bool
	delivered bool
}

// NewQuizFlow binds a quiz to a controller.
func NewQuizFlow(ctl *Controller, cfg QuizConfig, lessonTitle string, q course.Quiz) *QuizFlow {
	return &QuizFlow{
		ctl:      ctl,
		cfg:      cfg,
		title:    lessonTitle,
		quiz:     q,
		selected: -1,
	}
}

func (f *QuizFlow) Controller() *Controller { return f.ctl }
func (f *QuizFlow) Quiz() course.Quiz       { return f.quiz }
func (f *QuizFlow) Title() string           { return f.title }
func (f *QuizFlow) Selected() int           { return f.selected }
func (f *QuizFlow) Correct() bool           { return f.correct }
func (f *QuizFlow) Result() Result          { return f.result }

// Unit is the narrated content for this question.
func (f *QuizFlow) Unit() Unit {
	return Unit{
		Script: QuizScript(f.ctl.deps.A11y, f.title, f.quiz),
		Timer:  f.quiz.TimeLimit,
	}
}

// Mount starts the question.
func (f *QuizFlow) Mount() tea.Cmd {
	f.reset()
	return f.ctl.Mount(f.Unit())
}

// Load swaps in a new question and narrates it again.
func (f *QuizFlow) Load(q course.Quiz) tea.Cmd {
	f.quiz = q
	f.reset()
	return f.ctl.Load(f.Unit())
}

// Unmount cancels every timer of the screen.
func (f *QuizFlow) Unmount() {
	f.ctl.Unmount()
}

func (f *QuizFlow) reset() {
	f.selected = -1
	f.correct = false
	f.result = Result{}
	f.finished = false
	f.delivered = false
}

// Select marks option i. Ignored until the gate opens and after verify.
func (f *QuizFlow) Select(i int) {
	if !f.ctl.Interactive() || i < 0 || i >= len(f.quiz.Options) {
		return
	}
	f.selected = i
	f.ctl.Announce(fmt.Sprintf("Selected: %s. Press verify to check your answer.", f.quiz.Options[i].Text))
}

// CanVerify reports whether Verify would do anything.
func (f *QuizFlow) CanVerify() bool {
	return f.ctl.Interactive() && f.selected >= 0
}

// Verify grades the selection and moves to Answered. The verdict is spoken
// after FeedbackDelay.
func (f *QuizFlow) Verify() tea.Cmd {
	if !f.CanVerify() {
		return nil
	}
	f.correct = f.quiz.IsCorrect(f.selected)
	f.result = NewResult(f.correct, f.ctl.Elapsed())
	f.ctl.Finish(StateAnswered)
	f.ctl.log.Info("quiz answered", "correct", f.correct, "rapidez", f.result.Speed)
	return f.ctl.After(f.cfg.FeedbackDelay, tagFeedback)
}

// Verdict is the feedback sentence shown and spoken after verify.
func (f *QuizFlow) Verdict() string {
	if f.correct {
		return "Correct! " + f.quiz.Explanation
	}
	return "Incorrect. " + f.quiz.Explanation
}

// Continue hands over the result once the learner is done reading the
// verdict.
func (f *QuizFlow) Continue() (Result, bool) {
	if f.ctl.State() != StateAnswered || f.delivered {
		return Result{}, false
	}
	f.delivered = true
	return f.result, true
}

// Update handles controller traffic. done is true exactly once, when the
// countdown expired unanswered and the screen should move on with Result.
func (f *QuizFlow) Update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	ev, cmd := f.ctl.Update(msg)
	switch ev {
	case EventExpired:
		return f.expire()
	case EventDeferred:
		switch msg.(DeferredMsg).Tag {
		case tagFeedback:
			f.ctl.Announce(f.Verdict())
		case tagExpired:
			return f.deliver()
		}
	}
	return false, cmd
}

func (f *QuizFlow) expire() (bool, tea.Cmd) {
	if f.finished || f.ctl.State() != StateRunning {
		return false, nil
	}
	f.finished = true
	f.result = ExpiredResult(f.quiz.TimeLimit)
	f.ctl.Finish(StateCompleted)
	f.ctl.log.Info("quiz expired", "limit", f.quiz.TimeLimit)
	if f.ctl.ScreenReaderActive() && f.cfg.ExpiryGrace > 0 {
		return false, f.ctl.After(f.cfg.ExpiryGrace, tagExpired)
	}
	return f.deliver()
}

func (f *QuizFlow) deliver() (bool, tea.Cmd) {
	if f.delivered {
		return false, nil
	}
	f.delivered = true
	return true, nil
}
