package countdown

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/codiz/internal/a11y"
	"github.com/abhisek/codiz/internal/sched/schedtest"
)

type harness struct {
	v       *schedtest.Virtual
	rec     *a11y.Recorder
	c       *Countdown
	ticks   int
	expired []time.Duration
}

func newHarness() *harness {
	h := &harness{v: schedtest.New(), rec: &a11y.Recorder{}}
	h.c = New(DefaultConfig(), h.v, h.rec, nil)
	return h
}

func (h *harness) deliver(msg tea.Msg) {
	ev, _ := h.c.Update(msg)
	switch ev {
	case EventTick:
		h.ticks++
	case EventExpired:
		h.expired = append(h.expired, h.v.Now())
	}
}

func TestCountdown_RunsToZeroAndExpiresOnce(t *testing.T) {
	h := newHarness()
	h.c.Start(30 * time.Second)

	delivered := h.v.RunUntilIdle(1000, h.deliver)

	assert.Equal(t, 300, delivered)
	assert.Equal(t, 299, h.ticks)
	require.Len(t, h.expired, 1)
	assert.Equal(t, 30*time.Second, h.expired[0])
	assert.Zero(t, h.c.Remaining())
	assert.False(t, h.c.Running())
	assert.True(t, h.c.Expired())
}

func TestCountdown_RemainingIsMonotonic(t *testing.T) {
	h := newHarness()
	h.c.Start(3 * time.Second)

	prev := h.c.Remaining()
	h.v.RunUntilIdle(100, func(msg tea.Msg) {
		h.c.Update(msg)
		r := h.c.Remaining()
		assert.LessOrEqual(t, r, prev)
		assert.GreaterOrEqual(t, r, time.Duration(0))
		assert.LessOrEqual(t, r, h.c.Duration())
		prev = r
	})
}

func TestCountdown_PauseDoesNotDrift(t *testing.T) {
	h := newHarness()
	h.c.Start(10 * time.Second)

	h.v.RunFor(2*time.Second, h.deliver)
	require.Equal(t, 8*time.Second, h.c.Remaining())

	h.c.Pause()
	h.c.Pause()
	h.v.RunFor(5*time.Second, h.deliver)
	assert.Equal(t, 8*time.Second, h.c.Remaining(), "paused timer moved")
	assert.Zero(t, h.v.Pending())

	require.NotNil(t, h.c.Resume())
	assert.Nil(t, h.c.Resume(), "resume of a running timer is a no-op")
	h.v.RunUntilIdle(1000, h.deliver)

	require.Len(t, h.expired, 1)
	assert.Equal(t, 15*time.Second, h.expired[0])
}

func TestCountdown_ArmHoldsFullDuration(t *testing.T) {
	h := newHarness()
	h.c.Arm(30 * time.Second)

	assert.False(t, h.c.Running())
	assert.Equal(t, 30*time.Second, h.c.Remaining())
	assert.Equal(t, "0:30", Format(h.c.Remaining()))
	assert.Zero(t, h.v.Pending())

	h.c.Resume()
	h.v.RunFor(time.Second, h.deliver)
	assert.Equal(t, 29*time.Second, h.c.Remaining())
}

func TestCountdown_StartSupersedesInFlightTick(t *testing.T) {
	h := newHarness()
	h.c.Start(5 * time.Second)
	h.v.RunFor(time.Second, h.deliver)

	h.c.Start(5 * time.Second)
	h.v.RunUntilIdle(1000, h.deliver)

	require.Len(t, h.expired, 1)
	assert.Equal(t, 6*time.Second, h.expired[0])
}

func TestCountdown_StopDropsTicks(t *testing.T) {
	h := newHarness()
	h.c.Start(5 * time.Second)
	h.c.Stop()
	h.v.RunUntilIdle(1000, h.deliver)

	assert.Empty(t, h.expired)
	assert.Zero(t, h.ticks)
	assert.Nil(t, h.c.Resume(), "stopped timer resumes only through Start")
}

func TestCountdown_IgnoresForeignTicks(t *testing.T) {
	h := newHarness()
	other := New(DefaultConfig(), h.v, nil, nil)
	h.c.Start(time.Second)

	ev, cmd := h.c.Update(TickMsg{TimerID: other.ID(), Gen: h.c.Gen()})
	assert.Equal(t, EventNone, ev)
	assert.Nil(t, cmd)
	assert.Equal(t, time.Second, h.c.Remaining())
	assert.False(t, h.c.Owns(TickMsg{TimerID: other.ID()}))
}

func TestCountdown_MilestonesAnnouncedOnce(t *testing.T) {
	h := newHarness()
	h.c.SetMilestones(true)
	h.c.Start(30 * time.Second)
	h.v.RunUntilIdle(1000, h.deliver)

	assert.Equal(t, []string{
		"20 seconds left",
		"10 seconds left",
		"5", "4", "3", "2", "1",
		ExpiredText,
	}, h.rec.Texts())
}

func TestCountdown_LongTicksSpeakEveryMilestone(t *testing.T) {
	all := []string{
		"20 seconds left",
		"10 seconds left",
		"5", "4", "3", "2", "1",
		ExpiredText,
	}
	for _, interval := range []time.Duration{1500 * time.Millisecond, 2 * time.Second, 3 * time.Second} {
		t.Run(interval.String(), func(t *testing.T) {
			v, rec := schedtest.New(), &a11y.Recorder{}
			cfg := DefaultConfig()
			cfg.Interval = interval
			c := New(cfg, v, rec, nil)
			c.SetMilestones(true)
			c.Start(30 * time.Second)
			v.RunUntilIdle(1000, func(msg tea.Msg) { c.Update(msg) })

			assert.Equal(t, all, rec.Texts())
		})
	}
}

func TestCountdown_MilestonesAtOrAboveDurationArePremarked(t *testing.T) {
	h := newHarness()
	h.c.SetMilestones(true)
	h.c.Start(10 * time.Second)
	h.v.RunUntilIdle(1000, h.deliver)

	assert.Equal(t, []string{"5", "4", "3", "2", "1", ExpiredText}, h.rec.Texts())
}

func TestCountdown_MilestonesSilentWithoutScreenReader(t *testing.T) {
	h := newHarness()
	h.c.Start(25 * time.Second)
	h.v.RunUntilIdle(1000, h.deliver)

	assert.Zero(t, h.rec.Count())
	require.Len(t, h.expired, 1)
}

func TestCountdown_EnablingMidRunSkipsPassedMarks(t *testing.T) {
	h := newHarness()
	h.c.Start(30 * time.Second)
	h.v.RunFor(15*time.Second, h.deliver)

	h.c.SetMilestones(true)
	h.v.RunUntilIdle(1000, h.deliver)

	assert.Equal(t, []string{"10 seconds left", "5", "4", "3", "2", "1", ExpiredText}, h.rec.Texts())
}

func TestCountdown_RestartResetsMilestones(t *testing.T) {
	h := newHarness()
	h.c.SetMilestones(true)
	h.c.Start(3 * time.Second)
	h.v.RunUntilIdle(1000, h.deliver)
	first := h.rec.Count()

	h.c.Start(3 * time.Second)
	h.v.RunUntilIdle(1000, h.deliver)

	assert.Equal(t, 2*first, h.rec.Count())
	assert.Len(t, h.expired, 2)
}

func TestCountdown_LowFraction(t *testing.T) {
	h := newHarness()
	h.c.Start(10 * time.Second)
	assert.False(t, h.c.Low())

	h.v.RunFor(7100*time.Millisecond, h.deliver)
	assert.True(t, h.c.Low())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "0:30"},
		{29900 * time.Millisecond, "0:29"},
		{90 * time.Second, "1:30"},
		{0, "0:00"},
		{-time.Second, "0:00"},
		{600 * time.Millisecond, "0:00"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in))
		})
	}
}

func TestMilestoneText(t *testing.T) {
	assert.Equal(t, "20 seconds left", MilestoneText(20))
	assert.Equal(t, "3", MilestoneText(3))
}
