// Package screentest drives screens in tests on a virtual clock.
package screentest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codiz/internal/a11y"
	"github.com/abhisek/codiz/internal/countdown"
	"github.com/abhisek/codiz/internal/course"
	"github.com/abhisek/codiz/internal/lessonflow"
	"github.com/abhisek/codiz/internal/router"
	"github.com/abhisek/codiz/internal/sched/schedtest"
	"github.com/abhisek/codiz/internal/screen"
	"github.com/abhisek/codiz/internal/store"
)

// Rig owns one screen under test. Router messages the screen emits are
// recorded in Nav instead of being delivered.
type Rig struct {
	V      *schedtest.Virtual
	Rec    *a11y.Recorder
	Mon    *a11y.Monitor
	Env    *screen.Env
	Store  *store.Store
	Screen screen.Screen
	Nav    []tea.Msg
}

// New builds an environment with the embedded catalog and a static screen
// reader state. The monitor is probed once up front, as the app does at
// startup.
func New(t testing.TB, reader bool) *Rig {
	t.Helper()
	cat, err := course.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	r := &Rig{V: schedtest.New(), Rec: &a11y.Recorder{}}
	r.Mon = a11y.NewMonitor(a11y.Static(reader), a11y.DefaultConfig(), nil)
	r.Mon.Probe(context.Background())
	r.Env = &screen.Env{
		Catalog: cat,
		Flow: lessonflow.Deps{
			Monitor:   r.Mon,
			Announcer: r.Rec,
			Sched:     r.V,
			A11y:      a11y.DefaultConfig(),
			Countdown: countdown.DefaultConfig(),
		},
		Quiz: lessonflow.DefaultQuizConfig(),
	}
	return r
}

// WithStore attaches a SQLite store in a temp dir.
func (r *Rig) WithStore(t testing.TB) *Rig {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "codiz.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	r.Store = s
	r.Env.Lessons = s.Lessons()
	r.Env.Profile = s.KV()
	return r
}

// Start runs Init on s and everything it produces immediately.
func (r *Rig) Start(s screen.Screen) {
	r.Screen = s
	r.Exec(s.Init())
}

// Exec runs cmd and delivers its result, unwrapping batches.
func (r *Rig) Exec(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			r.Exec(c)
		}
	default:
		r.Deliver(msg)
	}
}

// Deliver hands msg to the screen.
func (r *Rig) Deliver(msg tea.Msg) {
	switch msg.(type) {
	case router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg:
		r.Nav = append(r.Nav, msg)
		return
	}
	next, cmd := r.Screen.Update(msg)
	r.Screen = next
	r.Exec(cmd)
}

// Press sends a key. Named keys use their Bubble Tea names.
func (r *Rig) Press(key string) {
	r.Deliver(Key(key))
}

// Back routes esc the way the app does: through the veto when the screen
// has one.
func (r *Rig) Back() {
	if bh, ok := r.Screen.(screen.BackHandler); ok {
		if handled, cmd := bh.HandleBack(); handled {
			r.Exec(cmd)
			return
		}
	}
	r.Nav = append(r.Nav, router.PopScreenMsg{})
}

// RunFor advances virtual time by d, delivering due messages.
func (r *Rig) RunFor(d time.Duration) {
	r.V.RunFor(d, r.Deliver)
}

// Settle delivers scheduled messages until the queue drains.
func (r *Rig) Settle() {
	r.V.RunUntilIdle(100000, r.Deliver)
}

// LastNav returns the most recent router message, or nil.
func (r *Rig) LastNav() tea.Msg {
	if len(r.Nav) == 0 {
		return nil
	}
	return r.Nav[len(r.Nav)-1]
}

// Spoken joins everything announced so far.
func (r *Rig) Spoken() string {
	return strings.Join(r.Rec.Texts(), "\n")
}

// Key builds a key press from its string form.
func Key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}
