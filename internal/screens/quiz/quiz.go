// Package quiz is the timed question at the end of a lesson.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codiz/internal/countdown"
	"github.com/abhisek/codiz/internal/course"
	"github.com/abhisek/codiz/internal/lessonflow"
	"github.com/abhisek/codiz/internal/llm"
	"github.com/abhisek/codiz/internal/quizgen"
	"github.com/abhisek/codiz/internal/router"
	"github.com/abhisek/codiz/internal/screen"
	"github.com/abhisek/codiz/internal/screens/feedback"
	"github.com/abhisek/codiz/internal/ui/components"
	"github.com/abhisek/codiz/internal/ui/layout"
	"github.com/abhisek/codiz/internal/ui/theme"
)

const (
	exitQuestion = "Exit the quiz? Your progress will not be saved."
	practiceWait = 45 * time.Second
)

// practiceMsg carries a generated practice question back to its screen.
type practiceMsg struct {
	owner uint64
	quiz  *course.Quiz
	err   error
}

// QuizScreen runs the lesson quiz. After answering, a practice question can
// be requested when a generator is configured; the lesson result is what
// gets reported either way.
type QuizScreen struct {
	env    *screen.Env
	course *course.Course
	lesson *course.Lesson
	flow   *lessonflow.QuizFlow
	list   components.MultiChoice

	confirming bool
	practice   bool
	generating bool
	notice     string
	asked      []string

	lessonResult *lessonflow.Result
}

var _ screen.Screen = (*QuizScreen)(nil)

// New creates the quiz for lesson.
func New(env *screen.Env, co *course.Course, lesson *course.Lesson) *QuizScreen {
	s := &QuizScreen{
		env:    env,
		course: co,
		lesson: lesson,
		flow:   lessonflow.NewQuizFlow(env.Controller(), env.Quiz, lesson.Title, lesson.Quiz),
		asked:  []string{lesson.Quiz.Question},
	}
	s.resetList()
	return s
}

func (s *QuizScreen) resetList() {
	q := s.flow.Quiz()
	opts := make([]string, len(q.Options))
	for i, o := range q.Options {
		opts[i] = o.Text
	}
	s.list = components.NewMultiChoice(opts, q.CorrectIndex())
}

// Flow exposes the quiz state.
func (s *QuizScreen) Flow() *lessonflow.QuizFlow { return s.flow }

// Confirming reports whether the exit dialog is showing.
func (s *QuizScreen) Confirming() bool { return s.confirming }

func (s *QuizScreen) Init() tea.Cmd {
	return s.flow.Mount()
}

func (s *QuizScreen) Title() string {
	if s.practice {
		return "Practice"
	}
	return "Quiz"
}

func (s *QuizScreen) Unmount() {
	s.flow.Unmount()
}

// HandleBack asks before leaving. Narration and the timer are held while
// the dialog is up.
func (s *QuizScreen) HandleBack() (bool, tea.Cmd) {
	if s.confirming {
		return true, s.dismiss()
	}
	s.confirming = true
	ctl := s.flow.Controller()
	ctl.Hold()
	ctl.Announce(exitQuestion + " Press y to exit or n to stay.")
	return true, nil
}

func (s *QuizScreen) dismiss() tea.Cmd {
	s.confirming = false
	return s.flow.Controller().Release()
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	case practiceMsg:
		return s, s.handlePractice(msg)
	}

	done, cmd := s.flow.Update(msg)
	if done {
		r := s.flow.Result()
		if s.lessonResult != nil {
			r = *s.lessonResult
		}
		return s, s.finish(r)
	}
	return s, cmd
}

func (s *QuizScreen) handleKey(key tea.KeyPressMsg) tea.Cmd {
	if s.confirming {
		switch key.String() {
		case "y":
			return router.Pop()
		case "n":
			return s.dismiss()
		}
		return nil
	}

	ctl := s.flow.Controller()
	if ctl.Gate().IsBlocked() {
		return nil
	}

	switch ctl.State() {
	case lessonflow.StateRunning:
		if key.String() == "enter" || key.String() == "v" {
			return s.verify()
		}
		var picked int
		s.list, picked = s.list.Update(key)
		if picked >= 0 {
			s.flow.Select(picked)
			s.list.Chosen = s.flow.Selected()
		}
	case lessonflow.StateAnswered:
		switch key.String() {
		case "enter", "c":
			if r, ok := s.flow.Continue(); ok {
				if s.lessonResult != nil {
					r = *s.lessonResult
				}
				return s.finish(r)
			}
		case "p":
			return s.requestPractice()
		}
	}
	return nil
}

func (s *QuizScreen) verify() tea.Cmd {
	if !s.flow.CanVerify() {
		return nil
	}
	cmd := s.flow.Verify()
	s.list.Revealed = true
	if !s.practice {
		r := s.flow.Result()
		s.lessonResult = &r
	}
	return cmd
}

func (s *QuizScreen) finish(r lessonflow.Result) tea.Cmd {
	return router.Replace(feedback.New(s.env, feedback.Attempt{
		CourseID:     s.course.ID,
		Lesson:       s.lesson.Number,
		Result:       r,
		Expired:      s.lessonResult == nil,
		ScreenReader: s.flow.Controller().ScreenReaderActive(),
	}))
}

// CanPractice reports whether a practice question can be requested now.
func (s *QuizScreen) CanPractice() bool {
	return s.env.Generator != nil && !s.generating &&
		s.flow.Controller().State() == lessonflow.StateAnswered
}

func (s *QuizScreen) requestPractice() tea.Cmd {
	if !s.CanPractice() {
		return nil
	}
	s.generating = true
	s.notice = "Generating a practice question…"
	s.flow.Controller().Announce(s.notice)

	gen := s.env.Generator
	owner := s.flow.Controller().ID()
	input := quizgen.Input{Course: s.course, Lesson: s.lesson, Prior: append([]string(nil), s.asked...)}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), practiceWait)
		defer cancel()
		q, err := gen.Generate(ctx, input)
		return practiceMsg{owner: owner, quiz: q, err: err}
	}
}

func (s *QuizScreen) handlePractice(msg practiceMsg) tea.Cmd {
	if msg.owner != s.flow.Controller().ID() || !s.generating {
		return nil
	}
	s.generating = false
	if msg.err != nil {
		s.env.Logger().Warn("practice question failed", "error", msg.err)
		s.notice = practiceError(msg.err)
		s.flow.Controller().Announce(s.notice)
		return nil
	}

	s.notice = ""
	s.practice = true
	s.asked = append(s.asked, msg.quiz.Question)
	cmd := s.flow.Load(*msg.quiz)
	s.resetList()
	return cmd
}

func practiceError(err error) string {
	switch {
	case errors.Is(err, llm.ErrRateLimit):
		return "The question service is busy. Try again in a moment."
	case errors.Is(err, context.DeadlineExceeded):
		return "The question service took too long. Try again."
	}
	return "Could not create a practice question."
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{{Key: "y", Description: "Exit"}, {Key: "n", Description: "Stay"}}
	}
	switch s.flow.Controller().State() {
	case lessonflow.StateAnswered:
		hints := []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
		if s.env.Generator != nil {
			hints = append(hints, layout.KeyHint{Key: "p", Description: "Practice question"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Exit"})
	}
	return []layout.KeyHint{
		{Key: "↑↓/1-3", Description: "Choose"},
		{Key: "Space", Description: "Select"},
		{Key: "Enter", Description: "Verify"},
		{Key: "Esc", Description: "Exit"},
	}
}

func (s *QuizScreen) View(width, height int) string {
	if s.confirming {
		return components.Confirm(exitQuestion, width, height)
	}
	ctl := s.flow.Controller()
	if ctl.Gate().IsBlocked() {
		return components.Overlay(ctl.Gate().OverlayLabel(), width, height)
	}

	cw := components.ContentWidth(width)
	q := s.flow.Quiz()

	sections := []string{
		theme.Subtitle.Render(fmt.Sprintf("%s · %s", s.lesson.Title, s.Title())),
		timerBar(ctl.Timer(), cw),
		lipgloss.NewStyle().Width(cw).Bold(true).Foreground(theme.Text).Render(q.Question),
		s.list.View(),
	}

	switch ctl.State() {
	case lessonflow.StateRunning:
		sections = append(sections, components.NewButton("Verify", !s.flow.CanVerify()).View())
	case lessonflow.StateAnswered:
		sections = append(sections, verdictBubble(s.flow.Correct(), s.flow.Verdict(), cw))
		row := []components.Button{components.NewButton("Continue", false)}
		if s.env.Generator != nil {
			row = append(row, components.NewButton("Practice question", s.generating))
		}
		sections = append(sections, components.Row(row...))
	case lessonflow.StateCompleted:
		sections = append(sections, theme.Incorrect.Render(countdown.ExpiredText))
	}
	if s.notice != "" {
		sections = append(sections, theme.Hint.Render(s.notice))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n\n"))
}

// timerBar draws the remaining time, switching colour when it runs low.
func timerBar(t *countdown.Countdown, width int) string {
	if t.Duration() <= 0 {
		return ""
	}
	bar := components.NewProgressBar("⏱ "+countdown.Format(t.Remaining()), t.Fraction(), false, width)
	if t.Low() {
		bar.Color = theme.Warning
	}
	return bar.View()
}

func verdictBubble(correct bool, text string, width int) string {
	style := theme.Bubble.Width(width - 2)
	if correct {
		style = style.BorderForeground(theme.Success)
	} else {
		style = style.BorderForeground(theme.Error)
	}
	return style.Render(text)
}
