package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/codiz/internal/screen"
)

// stubScreen is a minimal screen for testing.
type stubScreen struct {
	title   string
	initRan bool
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func TestPush(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)
	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopNoopAtBottom(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	r.Pop()

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after pop at bottom, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Replace(s2)

	if r.Depth() != 1 {
		t.Errorf("expected depth 1 after replace, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on replaced screen")
	}
}

func TestReplaceScreenMsg(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Update(ReplaceScreenMsg{Screen: s2})

	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run via ReplaceScreenMsg")
	}
}

func TestReplacePreservesStackDepth(t *testing.T) {
	s1 := &stubScreen{title: "first"}
	r := New(s1)

	s2 := &stubScreen{title: "second"}
	r.Push(s2)

	s3 := &stubScreen{title: "third"}
	r.Replace(s3)

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "third" {
		t.Errorf("expected active 'third', got %q", r.Active().Title())
	}
}

// lifecycleScreen records router lifecycle callbacks.
type lifecycleScreen struct {
	stubScreen
	unmounted, suspended, resumed int
	vetoBack                      bool
}

func (s *lifecycleScreen) Unmount()        { s.unmounted++ }
func (s *lifecycleScreen) Suspend()        { s.suspended++ }
func (s *lifecycleScreen) Resume() tea.Cmd { s.resumed++; return nil }
func (s *lifecycleScreen) HandleBack() (bool, tea.Cmd) {
	return s.vetoBack, nil
}

func TestLifecycleCallbacks(t *testing.T) {
	bottom := &lifecycleScreen{stubScreen: stubScreen{title: "bottom"}}
	r := New(bottom)

	top := &lifecycleScreen{stubScreen: stubScreen{title: "top"}}
	r.Push(top)
	if bottom.suspended != 1 {
		t.Errorf("expected bottom suspended once, got %d", bottom.suspended)
	}

	next := &lifecycleScreen{stubScreen: stubScreen{title: "next"}}
	r.Replace(next)
	if top.unmounted != 1 {
		t.Errorf("expected replaced screen unmounted, got %d", top.unmounted)
	}

	r.Pop()
	if next.unmounted != 1 {
		t.Errorf("expected popped screen unmounted, got %d", next.unmounted)
	}
	if bottom.resumed != 1 {
		t.Errorf("expected bottom resumed once, got %d", bottom.resumed)
	}
}

func TestBackVeto(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	s := &lifecycleScreen{stubScreen: stubScreen{title: "quiz"}, vetoBack: true}
	r.Push(s)

	r.Back()
	if r.Depth() != 2 {
		t.Fatalf("vetoed back must not pop, depth %d", r.Depth())
	}

	s.vetoBack = false
	r.Back()
	if r.Depth() != 1 {
		t.Fatalf("expected pop after veto lifted, depth %d", r.Depth())
	}
}
