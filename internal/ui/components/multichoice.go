package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codiz/internal/ui/theme"
)

// MultiChoice renders numbered options with a cursor. It does not decide
// what a choice means; the quiz flow owns selection and grading.
type MultiChoice struct {
	Options      []string
	Cursor       int
	Chosen       int
	CorrectIndex int
	Revealed     bool
}

// NewMultiChoice creates a multiple-choice list with nothing chosen.
func NewMultiChoice(options []string, correctIndex int) MultiChoice {
	return MultiChoice{Options: options, Chosen: -1, CorrectIndex: correctIndex}
}

// Update moves the cursor. It reports the option picked with enter or a
// digit key, or -1.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, int) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || m.Revealed {
		return m, -1
	}

	switch k := kmsg.String(); k {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "space":
		return m, m.Cursor
	default:
		if len(k) == 1 && k[0] >= '1' && int(k[0]-'1') < len(m.Options) {
			m.Cursor = int(k[0] - '1')
			return m, m.Cursor
		}
	}
	return m, -1
}

// View renders the options. Chosen and graded options carry a text marker so
// the state does not rely on colour.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor && !m.Revealed {
			prefix = "▸ "
		}
		mark := "( )"
		if i == m.Chosen {
			mark = "(•)"
		}
		line := fmt.Sprintf("%s%s %d. %s", prefix, mark, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Revealed && i == m.CorrectIndex:
			style = theme.Correct
			line += "  ✓ correct"
		case m.Revealed && i == m.Chosen:
			style = theme.Incorrect
			line += "  ✗ your answer"
		case m.Revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
