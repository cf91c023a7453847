package a11y

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name string
		text string
		wps  float64
		want time.Duration
	}{
		{"empty", "", 2.5, 0},
		{"five words", "one two three four five", 2.5, 2 * time.Second},
		{"rounds up to 100ms", "one two three", 2.5, 1200 * time.Millisecond},
		{"single word", "hola", 2.5, 400 * time.Millisecond},
		{"zero rate", "one two", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReadingTime(tt.text, tt.wps))
		})
	}
}

func TestBuildScript_LeadDelays(t *testing.T) {
	cfg := DefaultConfig()
	s := BuildScript(cfg,
		"one two three four five six seven eight nine ten",
		"",
		"short",
		"a b c",
	)

	if assert.Equal(t, 3, s.Len()) {
		assert.Equal(t, time.Duration(0), s.Steps[0].LeadDelay)
		assert.Equal(t, 4*time.Second, s.Steps[1].LeadDelay, "10 words at 2.5 w/s")
		assert.Equal(t, cfg.MinStepGap, s.Steps[2].LeadDelay, "short steps are floored at MinStepGap")
	}
	assert.Equal(t, "one two three four five six seven eight nine ten short a b c", s.Text())
}

func TestEstimate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Duration(0), Estimate(cfg, Script{}))

	s := BuildScript(cfg, "one two three four five", "one two three four five")
	// 2s lead for the second step, 2s reading time for it, 2s margin.
	assert.Equal(t, 6*time.Second, Estimate(cfg, s))
}
