package components

import (
	"github.com/abhisek/codiz/internal/ui/theme"
)

// Button is a styled, non-interactive button label. Screens map keys to
// actions themselves.
type Button struct {
	Label    string
	Disabled bool
}

// NewButton creates a new button.
func NewButton(label string, disabled bool) Button {
	return Button{Label: label, Disabled: disabled}
}

// View renders the button. A disabled button says so in text as well.
func (b Button) View() string {
	if b.Disabled {
		return theme.ButtonInactive.Render(b.Label + " (unavailable)")
	}
	return theme.ButtonActive.Render("▸ " + b.Label)
}

// Row joins buttons with spacing.
func Row(buttons ...Button) string {
	var s string
	for i, b := range buttons {
		if i > 0 {
			s += "   "
		}
		s += b.View()
	}
	return s
}
