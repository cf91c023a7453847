// Package history lists finished lesson attempts.
package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codiz/internal/screen"
	"github.com/abhisek/codiz/internal/store"
	"github.com/abhisek/codiz/internal/ui/layout"
	"github.com/abhisek/codiz/internal/ui/theme"
)

// pageSize caps how many attempts are loaded.
const pageSize = 50

type historyLoadedMsg struct {
	Results []store.LessonResult
	Err     error
}

// HistoryScreen displays past lesson attempts, newest first.
type HistoryScreen struct {
	env      *screen.Env
	results  []store.LessonResult
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(env *screen.Env) *HistoryScreen {
	return &HistoryScreen{
		env:      env,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.env.Lessons
	if repo == nil {
		s.loaded = true
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := s.env.Context()
		defer cancel()
		results, err := repo.List(ctx, store.QueryOpts{Limit: pageSize})
		return historyLoadedMsg{Results: results, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

// Len is the number of loaded attempts.
func (s *HistoryScreen) Len() int { return len(s.results) }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.env.Logger().Warn("failed to load lesson history", "error", msg.Err)
			s.errMsg = "Could not load your history."
			s.env.Announce(s.errMsg)
			return s, nil
		}
		s.results = msg.Results
		if len(s.results) == 0 {
			s.env.Announce("History. No lessons finished yet.")
		} else {
			s.env.Announce(fmt.Sprintf("History. %d attempts. %s", len(s.results), s.describe(0)))
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
				s.env.Announce(s.describe(s.selected))
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
				s.env.Announce(s.describe(s.selected))
			}
		case "enter", "space":
			if len(s.results) > 0 {
				s.expanded[s.selected] = !s.expanded[s.selected]
				if s.expanded[s.selected] {
					s.env.Announce(s.details(s.results[s.selected]))
				}
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) courseTitle(id string) string {
	if s.env.Catalog != nil {
		if co, ok := s.env.Catalog.Course(id); ok {
			return co.Title
		}
	}
	return id
}

// describe is the spoken summary of attempt i.
func (s *HistoryScreen) describe(i int) string {
	r := s.results[i]
	outcome := "correct"
	switch {
	case r.Expired:
		outcome = "time ran out"
	case r.Errors > 0:
		outcome = "incorrect"
	}
	return fmt.Sprintf("%s, lesson %d, %s, %s.", s.courseTitle(r.CourseID), r.Lesson, outcome, r.Speed)
}

func (s *HistoryScreen) details(r store.LessonResult) string {
	reader := "without a screen reader"
	if r.ScreenReader {
		reader = "with a screen reader"
	}
	return fmt.Sprintf("Correct answers: %d. Errors: %d. Speed: %s. %d XP, %s.",
		r.Correct, r.Errors, r.Speed, r.XP, reader)
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("\n\n" + s.errMsg)
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.results) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No lessons finished yet. Pick a course to start!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, r := range s.results {
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}

		outcome := "✓ correct"
		switch {
		case r.Expired:
			outcome = "⏱ time's up"
		case r.Errors > 0:
			outcome = "✗ incorrect"
		}

		line := fmt.Sprintf("%s%s  %-20s  lesson %-3d  %-12s  %s",
			prefix, r.Timestamp.Local().Format("Jan 02 15:04"), s.courseTitle(r.CourseID), r.Lesson, outcome, r.Speed)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("    "+s.details(r))))
			b.WriteString("\n")
		}
	}

	return b.String()
}
