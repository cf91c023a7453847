package a11y

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrUndetermined is returned by a Detector that has no opinion, letting a
// Chain fall through to the next one.
var ErrUndetermined = errors.New("screen reader state undetermined")

// Detector queries the platform accessibility service.
type Detector interface {
	ScreenReaderActive(ctx context.Context) (bool, error)
}

// DetectorFunc adapts a function to Detector.
type DetectorFunc func(ctx context.Context) (bool, error)

func (f DetectorFunc) ScreenReaderActive(ctx context.Context) (bool, error) {
	return f(ctx)
}

// Static always reports the same state.
type Static bool

func (s Static) ScreenReaderActive(context.Context) (bool, error) {
	return bool(s), nil
}

// EnvDetector reads an on/off switch from an environment variable.
type EnvDetector struct {
	Var string
}

// DefaultEnvVar is the variable consulted by NewEnvDetector.
const DefaultEnvVar = "CODIZ_SCREEN_READER"

// NewEnvDetector returns an EnvDetector for CODIZ_SCREEN_READER.
func NewEnvDetector() EnvDetector {
	return EnvDetector{Var: DefaultEnvVar}
}

func (e EnvDetector) ScreenReaderActive(context.Context) (bool, error) {
	v, ok := os.LookupEnv(e.Var)
	if !ok {
		return false, ErrUndetermined
	}
	return ParseMode(v)
}

// ParseMode interprets on/off style values. "auto" and "" are undetermined.
func ParseMode(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	case "", "auto":
		return false, ErrUndetermined
	default:
		return false, fmt.Errorf("invalid screen reader mode %q: %w", v, ErrUndetermined)
	}
}

// GSettingsDetector asks GNOME whether the Orca screen reader is enabled.
type GSettingsDetector struct {
	// Command defaults to "gsettings".
	Command string
}

func (g GSettingsDetector) ScreenReaderActive(ctx context.Context) (bool, error) {
	name := g.Command
	if name == "" {
		name = "gsettings"
	}
	if _, err := exec.LookPath(name); err != nil {
		return false, ErrUndetermined
	}
	out, err := exec.CommandContext(ctx, name, "get",
		"org.gnome.desktop.a11y.applications", "screen-reader-enabled").Output()
	if err != nil {
		return false, fmt.Errorf("gsettings query: %w", err)
	}
	return strings.TrimSpace(string(out)) == "true", nil
}

// Chain returns the first determinate answer from its detectors.
type Chain []Detector

func (c Chain) ScreenReaderActive(ctx context.Context) (bool, error) {
	var errs []error
	for _, d := range c {
		active, err := d.ScreenReaderActive(ctx)
		if err == nil {
			return active, nil
		}
		if !errors.Is(err, ErrUndetermined) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return false, errors.Join(errs...)
	}
	return false, ErrUndetermined
}

// PlatformDetector builds the detector for a configured mode: "on" and "off"
// force the answer, "auto" consults the environment then GNOME.
func PlatformDetector(mode string) Detector {
	active, err := ParseMode(mode)
	if err == nil {
		return Static(active)
	}
	return Chain{NewEnvDetector(), GSettingsDetector{}}
}
