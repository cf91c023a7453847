package countdown

import "time"

// Config controls tick granularity and the spoken milestones.
type Config struct {
	// Interval is both the tick period and the fixed decrement per tick.
	Interval time.Duration `yaml:"interval"`

	// Milestones are whole-second marks announced once each while the
	// screen reader is active.
	Milestones []int `yaml:"milestones"`

	// LowFraction is the remaining/duration ratio below which the timer is
	// drawn in the warning colour.
	LowFraction float64 `yaml:"low_fraction"`
}

// DefaultConfig returns the lesson timer defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    100 * time.Millisecond,
		Milestones:  []int{20, 10, 5, 4, 3, 2, 1},
		LowFraction: 0.3,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.Milestones == nil {
		c.Milestones = d.Milestones
	}
	if c.LowFraction <= 0 {
		c.LowFraction = d.LowFraction
	}
	return c
}
