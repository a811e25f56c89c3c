package llm

import (
	"fmt"
	"os"
	"time"
)

// Config selects and configures a provider.
type Config struct {
	// Provider is "anthropic", "openai", "gemini" or "mock".
	Provider string

	Anthropic ProviderConfig
	OpenAI    ProviderConfig
	Gemini    ProviderConfig
	Retry     RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// ProviderConfig holds the credentials of one provider. BaseURL is only
// honoured by the OpenAI provider, which lets it talk to compatible APIs
// such as OpenRouter.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig controls exponential backoff.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "anthropic",
		Anthropic: ProviderConfig{Model: "claude-haiku"},
		OpenAI:    ProviderConfig{Model: "gpt-mini"},
		Gemini:    ProviderConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 60 * time.Second,
	}
}

const envPrefix = "FLASHTEACHER_"

// ConfigFromEnv overlays FLASHTEACHER_LLM_PROVIDER and
// FLASHTEACHER_{ANTHROPIC,OPENAI,GEMINI}_{API_KEY,MODEL} on the defaults.
// FLASHTEACHER_OPENAI_BASE_URL redirects the OpenAI provider.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv(envPrefix + "LLM_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	overlay := func(name string, pc *ProviderConfig) {
		if v := os.Getenv(envPrefix + name + "_API_KEY"); v != "" {
			pc.APIKey = v
		}
		if v := os.Getenv(envPrefix + name + "_MODEL"); v != "" {
			pc.Model = v
		}
		if v := os.Getenv(envPrefix + name + "_BASE_URL"); v != "" {
			pc.BaseURL = v
		}
	}
	overlay("ANTHROPIC", &cfg.Anthropic)
	overlay("OPENAI", &cfg.OpenAI)
	overlay("GEMINI", &cfg.Gemini)
	return cfg
}

// Validate reports a missing API key for the selected provider.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case "anthropic":
		key, env = c.Anthropic.APIKey, "ANTHROPIC"
	case "openai":
		key, env = c.OpenAI.APIKey, "OPENAI"
	case "gemini":
		key, env = c.Gemini.APIKey, "GEMINI"
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider", envPrefix, env, c.Provider)
	}
	return nil
}
