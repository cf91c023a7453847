package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderFake       = "fake"
)

// Config selects and configures one provider. An empty Provider disables
// LLM features.
type Config struct {
	Provider string `yaml:"provider"`

	Anthropic  ProviderConfig `yaml:"anthropic"`
	OpenAI     ProviderConfig `yaml:"openai"`
	Gemini     ProviderConfig `yaml:"gemini"`
	OpenRouter ProviderConfig `yaml:"openrouter"`

	Retry RetryConfig `yaml:"retry"`
	Rate  RateConfig  `yaml:"rate"`

	// Timeout bounds a whole Generate call, retries included.
	Timeout time.Duration `yaml:"timeout"`
}

// ProviderConfig is the per-provider credential and model.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// RetryConfig is exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// RateConfig caps how often practice questions are requested. Zero
// PerMinute means unlimited.
type RateConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

// DefaultConfig leaves the provider unset and fills in models and retry.
func DefaultConfig() Config {
	return Config{
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Rate:    RateConfig{PerMinute: 6, Burst: 2},
		Timeout: 30 * time.Second,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool { return c.Provider != "" }

// Selected returns the settings of the chosen provider.
func (c Config) Selected() ProviderConfig {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic
	case ProviderOpenAI:
		return c.OpenAI
	case ProviderGemini:
		return c.Gemini
	case ProviderOpenRouter:
		return c.OpenRouter
	}
	return ProviderConfig{}
}

// ApplyEnv overlays CODIZ_LLM_PROVIDER and CODIZ_<PROVIDER>_{API_KEY,MODEL,BASE_URL}.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("CODIZ_LLM_PROVIDER"); v != "" {
		c.Provider = v
	}
	for name, pc := range c.providers() {
		prefix := "CODIZ_" + strings.ToUpper(name) + "_"
		if v := getenv(prefix + "API_KEY"); v != "" {
			pc.APIKey = v
		}
		if v := getenv(prefix + "MODEL"); v != "" {
			pc.Model = v
		}
		if v := getenv(prefix + "BASE_URL"); v != "" {
			pc.BaseURL = v
		}
	}
}

// Discover picks a provider from well-known vendor variables when none is
// configured. It reports whether one was found.
func (c *Config) Discover(getenv func(string) string) bool {
	if c.Enabled() {
		return true
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, cand := range []struct {
		env, provider string
	}{
		{"ANTHROPIC_API_KEY", ProviderAnthropic},
		{"OPENAI_API_KEY", ProviderOpenAI},
		{"GEMINI_API_KEY", ProviderGemini},
		{"OPENROUTER_API_KEY", ProviderOpenRouter},
	} {
		if k := getenv(cand.env); k != "" {
			c.Provider = cand.provider
			c.providers()[cand.provider].APIKey = k
			return true
		}
	}
	return false
}

func (c *Config) providers() map[string]*ProviderConfig {
	return map[string]*ProviderConfig{
		ProviderAnthropic:  &c.Anthropic,
		ProviderOpenAI:     &c.OpenAI,
		ProviderGemini:     &c.Gemini,
		ProviderOpenRouter: &c.OpenRouter,
	}
}

// Validate checks the chosen provider has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderFake:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.Selected().APIKey == "" {
			return fmt.Errorf("CODIZ_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider %q", c.Provider)
}
