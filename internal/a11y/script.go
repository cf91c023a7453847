package a11y

import (
	"math"
	"strings"
	"time"
)

// AnnouncementStep is one utterance and the wait before it is spoken.
type AnnouncementStep struct {
	Text      string
	LeadDelay time.Duration
}

// Script is an ordered narration. It is built once per content unit and never
// mutated; build a new one when the content changes.
type Script struct {
	Steps []AnnouncementStep
}

// Len returns the number of steps.
func (s Script) Len() int { return len(s.Steps) }

// Empty reports whether there is nothing to say.
func (s Script) Empty() bool { return len(s.Steps) == 0 }

// Text joins every step, which is what the blocking overlay exposes as its
// accessible description.
func (s Script) Text() string {
	parts := make([]string, 0, len(s.Steps))
	for _, st := range s.Steps {
		if t := strings.TrimSpace(st.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// BuildScript turns texts into a script whose lead delays give each previous
// utterance its estimated reading time. Blank texts are skipped.
func BuildScript(cfg Config, texts ...string) Script {
	cfg = cfg.withDefaults()
	var s Script
	var prev string
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		var lead time.Duration
		if len(s.Steps) > 0 {
			lead = ReadingTime(prev, cfg.WordsPerSecond)
			if lead < cfg.MinStepGap {
				lead = cfg.MinStepGap
			}
		}
		s.Steps = append(s.Steps, AnnouncementStep{Text: t, LeadDelay: lead})
		prev = t
	}
	return s
}

// ReadingTime estimates how long a screen reader takes to speak text at
// wordsPerSecond, rounded up to the next 100ms.
func ReadingTime(text string, wordsPerSecond float64) time.Duration {
	words := len(strings.Fields(text))
	if words == 0 || wordsPerSecond <= 0 {
		return 0
	}
	ms := math.Ceil(float64(words)/wordsPerSecond*10) * 100
	return time.Duration(ms) * time.Millisecond
}

// Estimate is the expected time from Play until the queue reports done: every
// lead delay, the reading time of the final step and the safety margin.
func Estimate(cfg Config, s Script) time.Duration {
	if s.Empty() {
		return 0
	}
	cfg = cfg.withDefaults()
	var total time.Duration
	for _, st := range s.Steps {
		total += st.LeadDelay
	}
	return total + tail(cfg, s)
}

func tail(cfg Config, s Script) time.Duration {
	last := s.Steps[len(s.Steps)-1]
	return ReadingTime(last.Text, cfg.WordsPerSecond) + cfg.SafetyMargin
}
