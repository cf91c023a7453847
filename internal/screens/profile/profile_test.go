package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codiz/internal/profile"
	"github.com/abhisek/codiz/internal/screen/screentest"
)

func typeText(r *screentest.Rig, text string) {
	for _, c := range text {
		r.Press(string(c))
	}
}

func TestSavesValidEmail(t *testing.T) {
	r := screentest.New(t, true).WithStore(t)
	s := New(r.Env)
	r.Start(s)

	typeText(r, "ana.garcia@example.com")
	r.Press("enter")

	p, err := profile.Load(context.Background(), r.Env.Profile)
	require.NoError(t, err)
	assert.Equal(t, "ana.garcia@example.com", p.Email)
	assert.Contains(t, s.Status(), p.DisplayName())
	assert.Contains(t, r.Spoken(), "Saved.")
}

func TestRejectsInvalidEmail(t *testing.T) {
	r := screentest.New(t, false).WithStore(t)
	s := New(r.Env)
	r.Start(s)

	typeText(r, "not-an-email")
	r.Press("enter")

	assert.Contains(t, s.View(80, 30), "invalid")
	p, err := profile.Load(context.Background(), r.Env.Profile)
	require.NoError(t, err)
	assert.Empty(t, p.Email)
}

func TestPrefillsStoredProfile(t *testing.T) {
	r := screentest.New(t, false).WithStore(t)
	require.NoError(t, profile.Save(context.Background(), r.Env.Profile,
		profile.Profile{Email: "lu@example.com", Name: "Lucía Pérez"}))

	s := New(r.Env)
	r.Start(s)
	assert.Equal(t, "lu@example.com", s.Email())
	assert.Contains(t, s.View(80, 30), "Lucía Pérez")

	r.Press("tab")
	r.Press("!")
	assert.Equal(t, "lu@example.com", s.Email(), "typing goes to the focused field")
}
