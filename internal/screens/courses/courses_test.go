package courses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codiz/internal/router"
	"github.com/abhisek/codiz/internal/screen/screentest"
	"github.com/abhisek/codiz/internal/screens/coursemap"
	"github.com/abhisek/codiz/internal/screens/history"
	profilescreen "github.com/abhisek/codiz/internal/screens/profile"
)

func TestListsCoursesWithProgress(t *testing.T) {
	r := screentest.New(t, false)
	s := New(r.Env)
	r.Start(s)

	view := s.View(100, 40)
	assert.Contains(t, view, "Data types")
	assert.Contains(t, view, "16%")
	assert.Contains(t, view, "coming soon")
}

func TestOpensPlayableCourse(t *testing.T) {
	r := screentest.New(t, false)
	s := New(r.Env)
	r.Start(s)

	r.Press("enter")
	msg, ok := r.LastNav().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &coursemap.CourseMapScreen{}, msg.Screen)
}

func TestSkipsLockedCoursesToExtras(t *testing.T) {
	r := screentest.New(t, true)
	s := New(r.Env)
	r.Start(s)

	r.Press("down")
	assert.Contains(t, r.Spoken(), "History")
	r.Press("enter")
	msg, ok := r.LastNav().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &history.HistoryScreen{}, msg.Screen)

	r.Press("down")
	assert.Contains(t, r.Spoken(), "Profile")
	r.Press("enter")
	msg, ok = r.LastNav().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &profilescreen.ProfileScreen{}, msg.Screen)
}

func TestCursorIsSilentWithoutScreenReader(t *testing.T) {
	r := screentest.New(t, false)
	r.Start(New(r.Env))
	r.Press("down")
	assert.Zero(t, r.Rec.Count())
}
