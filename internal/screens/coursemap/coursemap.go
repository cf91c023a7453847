// Package coursemap shows a course's levels and opens the current lesson.
package coursemap

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codiz/internal/course"
	"github.com/abhisek/codiz/internal/lessonflow"
	"github.com/abhisek/codiz/internal/router"
	"github.com/abhisek/codiz/internal/screen"
	"github.com/abhisek/codiz/internal/screens/flashcard"
	"github.com/abhisek/codiz/internal/ui/components"
	"github.com/abhisek/codiz/internal/ui/layout"
	"github.com/abhisek/codiz/internal/ui/theme"
)

const perRow = 5

// CourseMapScreen is the level grid for one course.
type CourseMapScreen struct {
	env    *screen.Env
	course *course.Course
	levels []course.Level
	cursor int
	ctl    *lessonflow.Controller
}

var _ screen.Screen = (*CourseMapScreen)(nil)

// New builds the map with the cursor on the current level.
func New(env *screen.Env, co *course.Course) *CourseMapScreen {
	s := &CourseMapScreen{
		env:    env,
		course: co,
		levels: co.Levels(),
		ctl:    env.Controller(),
	}
	if cur, ok := co.Current(); ok {
		s.cursor = cur.Number - 1
	}
	return s
}

func (s *CourseMapScreen) unit() lessonflow.Unit {
	return lessonflow.Unit{Script: lessonflow.CourseMapScript(s.env.Flow.A11y, s.course)}
}

func (s *CourseMapScreen) Init() tea.Cmd {
	return s.ctl.Mount(s.unit())
}

func (s *CourseMapScreen) Title() string {
	return s.course.Title
}

// Suspend stops narration while a lesson is on top.
func (s *CourseMapScreen) Suspend() {
	s.ctl.Unmount()
}

// Resume narrates the summary again on return.
func (s *CourseMapScreen) Resume() tea.Cmd {
	return s.ctl.Mount(s.unit())
}

func (s *CourseMapScreen) Unmount() {
	s.ctl.Unmount()
}

// Cursor is the zero-based selected level.
func (s *CourseMapScreen) Cursor() int { return s.cursor }

// Controller exposes the narration state.
func (s *CourseMapScreen) Controller() *lessonflow.Controller { return s.ctl }

func (s *CourseMapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		_, cmd := s.ctl.Update(msg)
		return s, cmd
	}
	if !s.ctl.Interactive() || len(s.levels) == 0 {
		return s, nil
	}

	prev := s.cursor
	switch key.String() {
	case "left", "h":
		s.cursor = max(s.cursor-1, 0)
	case "right", "l":
		s.cursor = min(s.cursor+1, len(s.levels)-1)
	case "up", "k":
		s.cursor = max(s.cursor-perRow, 0)
	case "down", "j":
		s.cursor = min(s.cursor+perRow, len(s.levels)-1)
	case "enter", "space":
		return s, s.open()
	}
	if s.cursor != prev {
		s.ctl.Announce(describe(s.levels[s.cursor]))
	}
	return s, nil
}

func (s *CourseMapScreen) open() tea.Cmd {
	lv := s.levels[s.cursor]
	if lv.Status != course.LevelCurrent || lv.Lesson == nil {
		s.ctl.Announce(describe(lv))
		return nil
	}
	return router.Push(flashcard.New(s.env, s.course, lv.Lesson))
}

func describe(lv course.Level) string {
	switch lv.Status {
	case course.LevelUnlocked:
		return fmt.Sprintf("Level %d, completed.", lv.Number)
	case course.LevelCurrent:
		if lv.Lesson != nil {
			return fmt.Sprintf("Level %d, current: %s. Press enter to start.", lv.Number, lv.Lesson.Subtitle)
		}
		return fmt.Sprintf("Level %d, current.", lv.Number)
	}
	return fmt.Sprintf("Level %d, locked.", lv.Number)
}

func (s *CourseMapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Enter", Description: "Start level"},
		{Key: "Esc", Description: "Courses"},
	}
}

func (s *CourseMapScreen) View(width, height int) string {
	if s.ctl.Gate().IsBlocked() {
		return components.Overlay(s.ctl.Gate().OverlayLabel(), width, height)
	}

	cw := components.ContentWidth(width)
	bar := components.NewProgressBar(
		fmt.Sprintf("%d / %d", s.course.Progress, s.course.Total),
		float64(s.course.Percent())/100, true, cw)

	var rows []string
	for start := 0; start < len(s.levels); start += perRow {
		var tiles []string
		for i := start; i < min(start+perRow, len(s.levels)); i++ {
			tiles = append(tiles, tile(s.levels[i], i == s.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}

	var detail string
	if len(s.levels) > 0 {
		detail = theme.Hint.Render(describe(s.levels[s.cursor]))
	}
	content := strings.Join([]string{
		theme.Title.Render(s.course.Title),
		bar.View(),
		strings.Join(rows, "\n"),
		detail,
	}, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// tile draws one level. The marker carries the status in text.
func tile(lv course.Level, selected bool) string {
	var mark string
	style := lipgloss.NewStyle().
		Width(7).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder())

	switch lv.Status {
	case course.LevelUnlocked:
		mark = "✓"
		style = style.BorderForeground(theme.Success).Foreground(theme.Success)
	case course.LevelCurrent:
		mark = "▶"
		style = style.BorderForeground(theme.ArcadeYellow).Foreground(theme.ArcadeYellow).Bold(true)
	default:
		mark = "·"
		style = style.BorderForeground(theme.Border).Foreground(theme.TextDim)
	}
	if selected {
		style = style.BorderStyle(lipgloss.ThickBorder()).BorderForeground(theme.Primary)
	}
	return style.Render(fmt.Sprintf("%s %d", mark, lv.Number))
}
