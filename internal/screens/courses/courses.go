// Package courses is the home screen: the course list with progress, plus
// the profile entry.
package courses

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codiz/internal/course"
	"github.com/abhisek/codiz/internal/router"
	"github.com/abhisek/codiz/internal/screen"
	"github.com/abhisek/codiz/internal/screens/coursemap"
	"github.com/abhisek/codiz/internal/screens/history"
	profilescreen "github.com/abhisek/codiz/internal/screens/profile"
	"github.com/abhisek/codiz/internal/ui/components"
	"github.com/abhisek/codiz/internal/ui/layout"
	"github.com/abhisek/codiz/internal/ui/theme"
)

// CoursesScreen lists every course. Only courses with lessons open.
type CoursesScreen struct {
	env     *screen.Env
	courses []*course.Course
	menu    components.Menu
}

var _ screen.Screen = (*CoursesScreen)(nil)

// New creates the course list.
func New(env *screen.Env) *CoursesScreen {
	s := &CoursesScreen{env: env}
	if env.Catalog != nil {
		for i := range env.Catalog.Courses {
			s.courses = append(s.courses, &env.Catalog.Courses[i])
		}
	}

	items := make([]components.MenuItem, 0, len(s.courses)+3)
	for _, co := range s.courses {
		item := components.MenuItem{
			Label:  co.Title,
			Detail: fmt.Sprintf("%d%%", co.Percent()),
		}
		if co.Playable() {
			item.Action = func() tea.Cmd { return router.Push(coursemap.New(env, co)) }
		} else {
			item.Detail += " · coming soon"
			item.Disabled = true
		}
		items = append(items, item)
	}
	items = append(items,
		components.MenuItem{Label: "History", Action: func() tea.Cmd {
			return router.Push(history.New(env))
		}},
		components.MenuItem{Label: "Profile", Action: func() tea.Cmd {
			return router.Push(profilescreen.New(env))
		}},
		components.MenuItem{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }},
	)
	s.menu = components.NewMenu(items)
	return s
}

func (s *CoursesScreen) Init() tea.Cmd {
	return nil
}

func (s *CoursesScreen) Title() string {
	return "Courses"
}

func (s *CoursesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	prev := s.menu.Selected
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	if s.menu.Selected != prev {
		s.env.Announce(s.describe(s.menu.Selected))
	}
	return s, cmd
}

// describe is what a screen reader hears when the cursor moves.
func (s *CoursesScreen) describe(i int) string {
	if i >= len(s.courses) {
		return s.menu.Items[i].Label
	}
	co := s.courses[i]
	text := fmt.Sprintf("%s, %d percent complete.", co.Title, co.Percent())
	if !co.Playable() {
		text += " Coming soon."
	}
	return text
}

func (s *CoursesScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *CoursesScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(theme.Title.Render("Choose a course")))

	if i := s.menu.Selected; i < len(s.courses) {
		co := s.courses[i]
		bar := components.NewProgressBar(
			fmt.Sprintf("%d / %d levels", co.Progress, co.Total),
			float64(co.Percent())/100, true, cw-6)
		sections = append(sections, components.Card(
			theme.Selected.Render(co.Title)+"\n"+
				theme.Hint.Render(co.Description)+"\n\n"+
				bar.View(), cw))
	}

	sections = append(sections, lipgloss.NewStyle().Width(cw).Render(s.menu.View()))

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}
