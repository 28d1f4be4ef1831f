package llm

import (
	"errors"
	"fmt"
	"time"
)

// Provider keys accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// DefaultOpenRouterURL is the OpenAI-compatible endpoint of OpenRouter.
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

// Config selects and configures the coach's model provider. It is loaded
// under the "llm" key of the application config.
type Config struct {
	Provider string `mapstructure:"provider" yaml:"provider"`

	Anthropic  Endpoint `mapstructure:"anthropic" yaml:"anthropic"`
	OpenAI     Endpoint `mapstructure:"openai" yaml:"openai"`
	Gemini     Endpoint `mapstructure:"gemini" yaml:"gemini"`
	OpenRouter Endpoint `mapstructure:"openrouter" yaml:"openrouter"`

	Retry RetryConfig `mapstructure:"retry" yaml:"retry"`

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Endpoint is the per-provider credential and model choice.
type Endpoint struct {
	APIKey  string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Model   string `mapstructure:"model" yaml:"model"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
}

// RetryConfig is the backoff policy for transient failures.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait" yaml:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait" yaml:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier" yaml:"multiplier"`
}

// DefaultConfig uses the small, cheap model of each provider. Explanations
// are short and latency matters more than depth.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  Endpoint{Model: "claude-haiku"},
		OpenAI:     Endpoint{Model: "gpt-4o-mini"},
		Gemini:     Endpoint{Model: "gemini-flash"},
		OpenRouter: Endpoint{Model: "google/gemini-2.0-flash-001", BaseURL: DefaultOpenRouterURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2,
		},
		Timeout: 20 * time.Second,
	}
}

// Endpoint returns the settings of the selected provider.
func (c Config) Endpoint() (Endpoint, error) {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic, nil
	case ProviderOpenAI:
		return c.OpenAI, nil
	case ProviderGemini:
		return c.Gemini, nil
	case ProviderOpenRouter:
		ep := c.OpenRouter
		if ep.BaseURL == "" {
			ep.BaseURL = DefaultOpenRouterURL
		}
		return ep, nil
	case ProviderMock:
		return Endpoint{Model: "mock"}, nil
	}
	return Endpoint{}, fmt.Errorf("unknown LLM provider %q", c.Provider)
}

// Validate checks the selected provider has an API key.
func (c Config) Validate() error {
	ep, err := c.Endpoint()
	if err != nil {
		return err
	}
	if c.Provider != ProviderMock && ep.APIKey == "" {
		return fmt.Errorf("llm.%s.api_key is required for the %s provider", c.Provider, c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return errors.New("llm.retry.max_attempts must be at least 1")
	}
	return nil
}

// Configured reports whether the coach can be switched on without further
// setup.
func (c Config) Configured() bool {
	return c.Validate() == nil
}
