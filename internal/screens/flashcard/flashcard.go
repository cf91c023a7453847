// Package flashcard is the reading part of a lesson.
package flashcard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codiz/internal/course"
	"github.com/abhisek/codiz/internal/lessonflow"
	"github.com/abhisek/codiz/internal/router"
	"github.com/abhisek/codiz/internal/screen"
	"github.com/abhisek/codiz/internal/screens/quiz"
	"github.com/abhisek/codiz/internal/ui/components"
	"github.com/abhisek/codiz/internal/ui/layout"
	"github.com/abhisek/codiz/internal/ui/theme"
)

// FlashcardScreen pages through a lesson's cards and hands over to the quiz
// after the last one. Back returns to the level map without confirmation.
type FlashcardScreen struct {
	env    *screen.Env
	course *course.Course
	lesson *course.Lesson
	flow   *lessonflow.FlashcardFlow
}

var _ screen.Screen = (*FlashcardScreen)(nil)

// New creates the screen for lesson.
func New(env *screen.Env, co *course.Course, lesson *course.Lesson) *FlashcardScreen {
	return &FlashcardScreen{
		env:    env,
		course: co,
		lesson: lesson,
		flow:   lessonflow.NewFlashcardFlow(env.Controller(), lesson.Title, lesson.Flashcards),
	}
}

// Flow exposes the card state.
func (s *FlashcardScreen) Flow() *lessonflow.FlashcardFlow { return s.flow }

func (s *FlashcardScreen) Init() tea.Cmd {
	return s.flow.Mount()
}

func (s *FlashcardScreen) Title() string {
	return fmt.Sprintf("Lesson %d", s.lesson.Number)
}

func (s *FlashcardScreen) Unmount() {
	s.flow.Unmount()
}

func (s *FlashcardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, s.flow.Update(msg)
	}

	switch key.String() {
	case "right", "l", "n", "enter", "space":
		finished, cmd := s.flow.Next()
		if finished {
			return s, router.Replace(quiz.New(s.env, s.course, s.lesson))
		}
		return s, cmd
	case "left", "h", "p":
		return s, s.flow.Prev()
	}
	return s, nil
}

func (s *FlashcardScreen) KeyHints() []layout.KeyHint {
	next := "Next"
	if s.flow.Index() == s.flow.Len()-1 {
		next = "Start quiz"
	}
	return []layout.KeyHint{
		{Key: "←", Description: "Previous"},
		{Key: "→/Enter", Description: next},
		{Key: "Esc", Description: "Levels"},
	}
}

func (s *FlashcardScreen) View(width, height int) string {
	ctl := s.flow.Controller()
	if ctl.Gate().IsBlocked() {
		return components.Overlay(ctl.Gate().OverlayLabel(), width, height)
	}

	cw := components.ContentWidth(width)
	card := s.flow.Card()

	var body strings.Builder
	body.WriteString(theme.Selected.Render(card.Subtitle))
	body.WriteString("\n\n")
	body.WriteString(theme.Body.Width(cw - 6).Render(card.Body))
	if len(card.Examples) > 0 {
		body.WriteString("\n")
		for _, ex := range card.Examples {
			body.WriteString("\n")
			body.WriteString(lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true).Render(ex.Label))
			body.WriteString("  ")
			body.WriteString(theme.Body.Render(ex.Description))
		}
	}

	progress := components.NewProgressBar(
		fmt.Sprintf("Card %d of %d", s.flow.Index()+1, s.flow.Len()),
		s.flow.Progress(), false, cw)

	nextLabel := "Next"
	if s.flow.Index() == s.flow.Len()-1 {
		nextLabel = "Start quiz"
	}
	buttons := components.Row(
		components.NewButton("Previous", s.flow.Index() == 0),
		components.NewButton(nextLabel, false),
	)

	content := strings.Join([]string{
		theme.Title.Render(s.lesson.Title),
		theme.Subtitle.Render(s.lesson.Subtitle),
		progress.View(),
		components.Card(body.String(), cw),
		buttons,
	}, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
