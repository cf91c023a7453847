// Package profile lets the learner edit the email and name used to greet
// them on the results screen.
package profile

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/codiz/internal/profile"
	"github.com/abhisek/codiz/internal/screen"
	"github.com/abhisek/codiz/internal/ui/components"
	"github.com/abhisek/codiz/internal/ui/layout"
	"github.com/abhisek/codiz/internal/ui/theme"
)

const (
	fieldEmail = iota
	fieldName
)

// loadedMsg carries the stored profile.
type loadedMsg struct {
	p   profile.Profile
	err error
}

// savedMsg reports the outcome of a save.
type savedMsg struct {
	p   profile.Profile
	err error
}

// ProfileScreen edits the learner profile.
type ProfileScreen struct {
	env    *screen.Env
	inputs [2]components.TextInput
	focus  int

	loaded  bool
	current profile.Profile
	status  string
}

var _ screen.Screen = (*ProfileScreen)(nil)

// New creates the profile screen.
func New(env *screen.Env) *ProfileScreen {
	s := &ProfileScreen{env: env}
	s.inputs[fieldEmail] = components.NewTextInput("you@example.com", "", 80)
	s.inputs[fieldName] = components.NewTextInput("Full name (optional)", "", 60)
	s.inputs[fieldName].Model.Blur()
	return s
}

func (s *ProfileScreen) Init() tea.Cmd {
	s.env.Announce("Profile. Type your email and press Enter to save. Tab switches to the name field.")
	if s.env.Profile == nil {
		s.loaded = true
		return nil
	}
	ps := s.env.Profile
	return func() tea.Msg {
		ctx, cancel := s.env.Context()
		defer cancel()
		p, err := profile.Load(ctx, ps)
		return loadedMsg{p: p, err: err}
	}
}

func (s *ProfileScreen) Title() string {
	return "Profile"
}

// Email returns the email field value.
func (s *ProfileScreen) Email() string { return s.inputs[fieldEmail].Value() }

// Status returns the last save outcome shown to the learner.
func (s *ProfileScreen) Status() string { return s.status }

func (s *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.env.Logger().Warn("failed to load profile", "error", msg.err)
			return s, nil
		}
		s.current = msg.p
		s.inputs[fieldEmail].Model.SetValue(msg.p.Email)
		s.inputs[fieldName].Model.SetValue(msg.p.Name)
		return s, nil
	case savedMsg:
		valid := msg.err == nil
		s.inputs[fieldEmail].Submit(valid)
		if !valid {
			s.status = "That email does not look right."
			s.env.Logger().Warn("failed to save profile", "error", msg.err)
		} else {
			s.current = msg.p
			s.status = fmt.Sprintf("Saved. We will call you %s.", msg.p.DisplayName())
		}
		s.env.Announce(s.status)
		return s, nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			s.toggleFocus()
			return s, nil
		case "enter":
			return s, s.save()
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *ProfileScreen) toggleFocus() {
	s.inputs[s.focus].Model.Blur()
	s.focus = (s.focus + 1) % len(s.inputs)
	s.inputs[s.focus].Model.Focus()
	if s.focus == fieldEmail {
		s.env.Announce("Email field")
	} else {
		s.env.Announce("Name field")
	}
}

func (s *ProfileScreen) save() tea.Cmd {
	p := profile.Profile{
		Email: strings.TrimSpace(s.inputs[fieldEmail].Value()),
		Name:  strings.TrimSpace(s.inputs[fieldName].Value()),
	}
	if p.Email != "" && !profile.ValidEmail(p.Email) {
		return func() tea.Msg { return savedMsg{p: p, err: fmt.Errorf("invalid email %q", p.Email)} }
	}
	ps := s.env.Profile
	if ps == nil {
		return func() tea.Msg { return savedMsg{p: p} }
	}
	return func() tea.Msg {
		ctx, cancel := s.env.Context()
		defer cancel()
		return savedMsg{p: p, err: profile.Save(ctx, ps, p)}
	}
}

func (s *ProfileScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Save"},
		{Key: "Tab", Description: "Next field"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ProfileScreen) View(width, height int) string {
	w := components.ContentWidth(width)
	if !s.loaded {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Hint.Render("Loading profile..."))
	}

	label := func(i int, text string) string {
		if s.focus == i {
			return theme.Selected.Render("▸ " + text)
		}
		return theme.Hint.Render("  " + text)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("PROFILE"))
	b.WriteString("\n\n")
	b.WriteString(label(fieldEmail, "Email"))
	b.WriteString("\n")
	b.WriteString(s.inputs[fieldEmail].View())
	b.WriteString("\n\n")
	b.WriteString(label(fieldName, "Name"))
	b.WriteString("\n")
	b.WriteString(s.inputs[fieldName].View())
	b.WriteString("\n\n")
	b.WriteString(theme.Subtitle.Render("Greeting: " + s.current.DisplayName()))
	if s.status != "" {
		b.WriteString("\n\n")
		b.WriteString(s.status)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, components.Card(b.String(), w))
}
