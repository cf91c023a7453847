package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codiz/internal/ui/theme"
)

// Overlay replaces a screen's interactive region while narration plays. The
// label is the whole narration so it can be reviewed at any pace.
func Overlay(label string, width, height int) string {
	w := min(max(width-8, 20), 72)
	box := theme.Overlay.Width(w).Render(
		lipgloss.NewStyle().Bold(true).Render("Listening…") + "\n\n" + label +
			"\n\n" + theme.Hint.Render("Controls appear when narration ends. Esc to go back."),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// Confirm renders a yes/no dialog.
func Confirm(question string, width, height int) string {
	box := theme.Dialog.Render(question + "\n\n" + theme.Hint.Render("y: yes    n: no"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
