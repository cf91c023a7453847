package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codiz/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackHandler lets a screen intercept the back key. When handled is true
// the router does not pop the screen.
type BackHandler interface {
	HandleBack() (handled bool, cmd tea.Cmd)
}

// Unmounter is called when a screen leaves the stack so it can cancel its
// pending timers.
type Unmounter interface {
	Unmount()
}

// Resumer is called when a screen becomes active again after the screen
// above it was popped.
type Resumer interface {
	Resume() tea.Cmd
}

// Suspender is called when another screen is pushed on top.
type Suspender interface {
	Suspend()
}
