// Package feedback shows the stats of a finished quiz and records the
// attempt.
package feedback

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codiz/internal/lessonflow"
	"github.com/abhisek/codiz/internal/profile"
	"github.com/abhisek/codiz/internal/router"
	"github.com/abhisek/codiz/internal/screen"
	"github.com/abhisek/codiz/internal/store"
	"github.com/abhisek/codiz/internal/ui/components"
	"github.com/abhisek/codiz/internal/ui/layout"
	"github.com/abhisek/codiz/internal/ui/theme"
)

const (
	leaveQuestion = "Leave the results?"
	loadingText   = "Loading your results…"
)

// Attempt is the finished quiz handed over by the quiz screen.
type Attempt struct {
	CourseID     string
	Lesson       int
	Result       lessonflow.Result
	Expired      bool
	ScreenReader bool
}

// profileMsg delivers the learner name.
type profileMsg struct {
	owner uint64
	name  string
}

// savedMsg reports the attempt was stored.
type savedMsg struct {
	owner uint64
}

// FeedbackScreen congratulates the learner and returns to the level map.
type FeedbackScreen struct {
	env     *screen.Env
	attempt Attempt
	flow    *lessonflow.FeedbackFlow

	confirming bool
	saved      bool
	loading    bool
}

var _ screen.Screen = (*FeedbackScreen)(nil)

// New creates the feedback screen for a.
func New(env *screen.Env, a Attempt) *FeedbackScreen {
	return &FeedbackScreen{
		env:     env,
		attempt: a,
		flow:    lessonflow.NewFeedbackFlow(env.Controller(), profile.FallbackName, a.Result),
	}
}

// Flow exposes the narration state.
func (s *FeedbackScreen) Flow() *lessonflow.FeedbackFlow { return s.flow }

// Attempt returns what is being reported.
func (s *FeedbackScreen) Attempt() Attempt { return s.attempt }

// Saved reports whether the attempt has been stored.
func (s *FeedbackScreen) Saved() bool { return s.saved }

func (s *FeedbackScreen) owner() uint64 { return s.flow.Controller().ID() }

// Init records the attempt and loads the learner name. Narration waits for
// the name so it is spoken correctly.
func (s *FeedbackScreen) Init() tea.Cmd {
	if s.env.Profile == nil {
		return tea.Batch(s.save(), s.flow.Mount())
	}
	s.loading = true
	return tea.Batch(s.save(), s.loadName())
}

func (s *FeedbackScreen) loadName() tea.Cmd {
	ps, owner, log := s.env.Profile, s.owner(), s.env.Logger()
	return func() tea.Msg {
		ctx, cancel := s.env.Context()
		defer cancel()
		p, err := profile.Load(ctx, ps)
		if err != nil {
			log.Warn("failed to load profile", "error", err)
		}
		return profileMsg{owner: owner, name: p.DisplayName()}
	}
}

func (s *FeedbackScreen) save() tea.Cmd {
	repo := s.env.Lessons
	if repo == nil {
		return nil
	}
	owner, log, a := s.owner(), s.env.Logger(), s.attempt
	return func() tea.Msg {
		ctx, cancel := s.env.Context()
		defer cancel()
		err := repo.Append(ctx, &store.LessonResult{
			CourseID:     a.CourseID,
			Lesson:       a.Lesson,
			Correct:      a.Result.Correct,
			Errors:       a.Result.Errors,
			Speed:        a.Result.Speed,
			Expired:      a.Expired,
			ScreenReader: a.ScreenReader,
			XP:           lessonflow.XPPerLesson,
		})
		if err != nil {
			log.Warn("failed to record lesson result", "error", err)
			return nil
		}
		return savedMsg{owner: owner}
	}
}

func (s *FeedbackScreen) Title() string {
	return "Results"
}

func (s *FeedbackScreen) Unmount() {
	s.flow.Unmount()
}

// HandleBack asks before leaving the results.
func (s *FeedbackScreen) HandleBack() (bool, tea.Cmd) {
	if s.confirming {
		return true, s.dismiss()
	}
	s.confirming = true
	ctl := s.flow.Controller()
	ctl.Hold()
	ctl.Announce(leaveQuestion + " Press y to go back to the levels or n to stay.")
	return true, nil
}

func (s *FeedbackScreen) dismiss() tea.Cmd {
	s.confirming = false
	return s.flow.Controller().Release()
}

func (s *FeedbackScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileMsg:
		if msg.owner != s.owner() {
			return s, nil
		}
		s.loading = false
		return s, tea.Batch(s.flow.SetName(msg.name), s.flow.Mount())
	case savedMsg:
		if msg.owner != s.owner() {
			return s, nil
		}
		s.saved = true
		return s, s.env.LoadStats()
	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, s.flow.Update(msg)
}

func (s *FeedbackScreen) handleKey(key tea.KeyPressMsg) tea.Cmd {
	if s.confirming {
		switch key.String() {
		case "y":
			return router.Pop()
		case "n":
			return s.dismiss()
		}
		return nil
	}
	if s.loading || s.flow.Controller().Gate().IsBlocked() {
		return nil
	}
	if key.String() == "enter" || key.String() == "c" {
		return router.Pop()
	}
	return nil
}

// Rank grades the attempt for display.
func Rank(r lessonflow.Result) string {
	secs, err := r.Seconds()
	switch {
	case !r.Passed():
		return "Keep practicing"
	case err == nil && secs <= 10:
		return "Lightning coder"
	default:
		return "Solid coder"
	}
}

func (s *FeedbackScreen) KeyHints() []layout.KeyHint {
	if s.confirming {
		return []layout.KeyHint{{Key: "y", Description: "Back to levels"}, {Key: "n", Description: "Stay"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *FeedbackScreen) View(width, height int) string {
	if s.confirming {
		return components.Confirm(leaveQuestion, width, height)
	}
	if s.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Hint.Render(loadingText))
	}
	ctl := s.flow.Controller()
	if ctl.Gate().IsBlocked() {
		return components.Overlay(ctl.Gate().OverlayLabel(), width, height)
	}

	r := s.flow.Result()
	cardW := max((components.ContentWidth(width)-6)/3, 10)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		components.StatCard("correct", strconv.Itoa(r.Correct), cardW),
		" ",
		components.StatCard("speed", r.Speed, cardW),
		" ",
		components.StatCard("errors", strconv.Itoa(r.Errors), cardW),
	)

	sections := []string{
		theme.Title.Render(fmt.Sprintf("Congratulations %s!", s.flow.Name())),
		theme.Subtitle.Render(Rank(r)),
		lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(fmt.Sprintf("+%d XP", s.flow.XP())),
		cards,
		components.NewButton("Continue", false).View(),
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n\n"))
}
