package a11y

import "time"

// Config tunes narration timing. The platform gives no "finished speaking"
// callback, so every duration here is an estimate.
type Config struct {
	// WordsPerSecond is the assumed screen-reader speaking rate.
	WordsPerSecond float64 `yaml:"words_per_second"`

	// MinStepGap is the shortest lead delay between two announcements.
	MinStepGap time.Duration `yaml:"min_step_gap"`

	// SafetyMargin is added after the last step before the queue reports done.
	SafetyMargin time.Duration `yaml:"safety_margin"`

	// ProbeTimeout bounds a single platform detection query.
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// PollInterval is how often Watch re-queries the platform.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// DefaultConfig returns the timings used by the lesson screens.
func DefaultConfig() Config {
	return Config{
		WordsPerSecond: 2.5,
		MinStepGap:     1 * time.Second,
		SafetyMargin:   2 * time.Second,
		ProbeTimeout:   2 * time.Second,
		PollInterval:   5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WordsPerSecond <= 0 {
		c.WordsPerSecond = d.WordsPerSecond
	}
	if c.MinStepGap < 0 {
		c.MinStepGap = 0
	}
	if c.SafetyMargin < 0 {
		c.SafetyMargin = 0
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = d.ProbeTimeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	return c
}
