package a11y

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate(t *testing.T) {
	g := NewGate(false)
	assert.False(t, g.IsBlocked())

	g.Close("Quiz. Question: what is a float?")
	assert.True(t, g.IsBlocked())
	assert.Equal(t, "Quiz. Question: what is a float?", g.OverlayLabel())

	g.Open()
	assert.False(t, g.IsBlocked())
	assert.Empty(t, g.OverlayLabel())

	assert.True(t, NewGate(true).IsBlocked())
}
