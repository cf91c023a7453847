// Package config loads codiz settings from defaults, a YAML file and the
// environment, in that order. Command-line flags are applied by cmd.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/codiz/internal/a11y"
	"github.com/abhisek/codiz/internal/countdown"
	"github.com/abhisek/codiz/internal/lessonflow"
	"github.com/abhisek/codiz/internal/llm"
)

// Screen reader modes.
const (
	ScreenReaderAuto = "auto"
	ScreenReaderOn   = "on"
	ScreenReaderOff  = "off"
)

// Config is the full application configuration.
type Config struct {
	// DBPath overrides the default database location when set.
	DBPath string `yaml:"db"`

	// LogFile receives logs; the TUI owns stdout.
	LogFile string `yaml:"log_file"`
	LogMode string `yaml:"log_mode"`

	// ScreenReader is auto, on or off.
	ScreenReader string `yaml:"screen_reader"`

	// Speech is the command narration is piped to, with the text appended
	// as the last argument. Empty keeps narration on screen only.
	Speech string `yaml:"speech"`

	A11y      a11y.Config           `yaml:"a11y"`
	Countdown countdown.Config      `yaml:"countdown"`
	Quiz      lessonflow.QuizConfig `yaml:"quiz"`
	LLM       llm.Config            `yaml:"llm"`
}

// DefaultConfig returns settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		LogMode:      "dev",
		ScreenReader: ScreenReaderAuto,
		Speech:       "spd-say",
		A11y:         a11y.DefaultConfig(),
		Countdown:    countdown.DefaultConfig(),
		Quiz:         lessonflow.DefaultQuizConfig(),
		LLM:          llm.DefaultConfig(),
	}
}

// Load builds the configuration from defaults, then the YAML file at path,
// then CODIZ_* variables. A missing file is not an error; an empty path
// uses DefaultPath.
func Load(path string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultPath(getenv)
		if err != nil {
			return cfg, err
		}
		path = p
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(getenv)
	if cfg.LogFile == "" {
		p, err := DefaultLogPath(getenv)
		if err != nil {
			return cfg, err
		}
		cfg.LogFile = p
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overlays CODIZ_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("CODIZ_DB"); v != "" {
		c.DBPath = v
	}
	if v := getenv("CODIZ_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := getenv("CODIZ_LOG_MODE"); v != "" {
		c.LogMode = v
	}
	if v, ok := lookup(getenv, "CODIZ_SPEECH"); ok {
		c.Speech = v
	}
	if v := getenv(a11y.DefaultEnvVar); v != "" {
		c.ScreenReader = normalizeMode(v)
	}
	c.LLM.ApplyEnv(getenv)
	c.LLM.Discover(getenv)
}

// lookup treats "-" as an explicit empty value.
func lookup(getenv func(string) string, key string) (string, bool) {
	switch v := getenv(key); v {
	case "":
		return "", false
	case "-":
		return "", true
	default:
		return v, true
	}
}

// SetScreenReader applies a --screen-reader flag value.
func (c *Config) SetScreenReader(v string) error {
	mode := normalizeMode(v)
	if !validMode(mode) {
		return fmt.Errorf("screen reader mode must be auto, on or off, got %q", v)
	}
	c.ScreenReader = mode
	return nil
}

// Validate checks enumerations and the LLM section.
func (c Config) Validate() error {
	var errs []error
	if !validMode(c.ScreenReader) {
		errs = append(errs, fmt.Errorf("screen_reader: invalid mode %q", c.ScreenReader))
	}
	if c.Countdown.Interval < 0 {
		errs = append(errs, errors.New("countdown.interval must not be negative"))
	}
	if err := c.LLM.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("llm: %w", err))
	}
	return errors.Join(errs...)
}

func normalizeMode(v string) string {
	if on, err := a11y.ParseMode(v); err == nil {
		if on {
			return ScreenReaderOn
		}
		return ScreenReaderOff
	}
	return strings.ToLower(strings.TrimSpace(v))
}

func validMode(m string) bool {
	return m == ScreenReaderAuto || m == ScreenReaderOn || m == ScreenReaderOff
}

// DefaultPath is $XDG_CONFIG_HOME/codiz/config.yaml.
func DefaultPath(getenv func(string) string) (string, error) {
	dir, err := xdgDir(getenv, "XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "codiz", "config.yaml"), nil
}

// DefaultLogPath is $XDG_STATE_HOME/codiz/codiz.log.
func DefaultLogPath(getenv func(string) string) (string, error) {
	dir, err := xdgDir(getenv, "XDG_STATE_HOME", filepath.Join(".local", "state"))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "codiz", "codiz.log"), nil
}

func xdgDir(getenv func(string) string, env, fallback string) (string, error) {
	if d := getenv(env); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, fallback), nil
}
