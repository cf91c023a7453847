package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	}
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}

func TestMenuSkipsDisabled(t *testing.T) {
	var picked string
	items := []MenuItem{
		{Label: "a", Disabled: true},
		{Label: "b", Action: func() tea.Cmd { picked = "b"; return nil }},
		{Label: "c", Disabled: true},
		{Label: "d", Action: func() tea.Cmd { picked = "d"; return nil }},
	}
	m := NewMenu(items)
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(key("down"))
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(key("enter"))
	assert.Equal(t, "d", picked)

	m, _ = m.Update(key("up"))
	assert.Equal(t, 1, m.Selected)
	assert.Equal(t, 1, NewMenuAt(items, 2).Selected, "disabled start falls back to first enabled")
	assert.Equal(t, 3, NewMenuAt(items, 3).Selected)
}

func TestMultiChoicePicks(t *testing.T) {
	mc := NewMultiChoice([]string{"Integers", "Decimals", "Negatives"}, 1)

	mc, picked := mc.Update(key("down"))
	assert.Equal(t, -1, picked)
	assert.Equal(t, 1, mc.Cursor)

	_, picked = mc.Update(key("space"))
	assert.Equal(t, 1, picked)

	mc, picked = mc.Update(key("3"))
	assert.Equal(t, 2, picked)
	assert.Equal(t, 2, mc.Cursor)

	_, picked = mc.Update(key("4"))
	assert.Equal(t, -1, picked)
}

func TestMultiChoiceRevealedMarksText(t *testing.T) {
	mc := NewMultiChoice([]string{"Integers", "Decimals", "Negatives"}, 1)
	mc.Chosen = 0
	mc.Revealed = true

	v := mc.View()
	assert.Contains(t, v, "✓ correct")
	assert.Contains(t, v, "✗ your answer")

	_, picked := mc.Update(key("2"))
	assert.Equal(t, -1, picked, "revealed list ignores input")
}

func TestProgressBarClamps(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = NewProgressBar("", 1.5, true, 10).View()
		_ = NewProgressBar("x", -1, false, 0).View()
	})
}

func TestButtonDisabledSaysSo(t *testing.T) {
	assert.Contains(t, NewButton("Verify", true).View(), "unavailable")
	assert.Contains(t, NewButton("Verify", false).View(), "Verify")
}
