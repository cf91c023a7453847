package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codiz/internal/a11y"
	"github.com/abhisek/codiz/internal/screen"
	"github.com/abhisek/codiz/internal/screen/screentest"
	"github.com/abhisek/codiz/internal/screens/courses"
	"github.com/abhisek/codiz/internal/store"
)

func newTestModel(t *testing.T, reader bool) (AppModel, *a11y.Transcript) {
	t.Helper()
	r := screentest.New(t, reader)
	tr := a11y.NewTranscript(5)
	m := newAppModel(Options{Env: r.Env, Monitor: r.Mon, Transcript: tr})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(AppModel), tr
}

// send delivers msg and runs immediate follow-up navigation.
func send(m AppModel, msg tea.Msg) AppModel {
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	if cmd == nil {
		return m
	}
	if follow := cmd(); follow != nil {
		if _, ok := follow.(tea.BatchMsg); !ok {
			next, _ = m.Update(follow)
			m = next.(AppModel)
		}
	}
	return m
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t, false)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWelcomeContinuesToCourses(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.IsType(t, &courses.CoursesScreen{}, m.router.Active())
	assert.Equal(t, 1, m.router.Depth())

	m = send(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 1, m.router.Depth(), "esc at the root stays put")
}

func TestStatsInHeader(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, screen.StatsMsg{Stats: store.LessonStats{Attempts: 2, XP: 100}})
	assert.Contains(t, m.render(), "100 XP")
}

func TestLiveRegionFollowsScreenReader(t *testing.T) {
	m, tr := newTestModel(t, false)
	tr.Announce("Level 5, current.")

	assert.NotContains(t, m.render(), "Level 5, current.")

	m = send(m, a11y.ScreenReaderChangedMsg{Active: true})
	assert.Contains(t, m.render(), "Level 5, current.")

	m = send(m, readerMsg{active: false})
	assert.NotContains(t, m.render(), "Level 5, current.")
}

func TestFooterUsesScreenHints(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = send(m, tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, m.render(), "Open")
}
