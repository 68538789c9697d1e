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
	ProviderMock       = "mock"
)

// Config selects and configures a provider.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig controls WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// envBinding ties an environment variable to a config field.
type envBinding struct {
	name string
	dst  func(*Config) *string
}

var envBindings = []envBinding{
	{"LITGUESS_LLM_PROVIDER", func(c *Config) *string { return &c.Provider }},
	{"LITGUESS_ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"LITGUESS_ANTHROPIC_MODEL", func(c *Config) *string { return &c.Anthropic.Model }},
	{"LITGUESS_OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"LITGUESS_OPENAI_MODEL", func(c *Config) *string { return &c.OpenAI.Model }},
	{"LITGUESS_OPENAI_BASE_URL", func(c *Config) *string { return &c.OpenAI.BaseURL }},
	{"LITGUESS_GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"LITGUESS_GEMINI_MODEL", func(c *Config) *string { return &c.Gemini.Model }},
	{"LITGUESS_OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
	{"LITGUESS_OPENROUTER_MODEL", func(c *Config) *string { return &c.OpenRouter.Model }},
}

// vendorKeys are the providers' conventional key variables, probed in
// order when LITGUESS_LLM_PROVIDER is unset.
var vendorKeys = []struct {
	env, provider string
	dst           func(*Config) *string
}{
	{"ANTHROPIC_API_KEY", ProviderAnthropic, func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"OPENAI_API_KEY", ProviderOpenAI, func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"GEMINI_API_KEY", ProviderGemini, func(c *Config) *string { return &c.Gemini.APIKey }},
	{"OPENROUTER_API_KEY", ProviderOpenRouter, func(c *Config) *string { return &c.OpenRouter.APIKey }},
}

// ConfigFromEnv reads LITGUESS_* variables over DefaultConfig. If no
// provider is named, the first vendor key found (ANTHROPIC_API_KEY,
// OPENAI_API_KEY, GEMINI_API_KEY, OPENROUTER_API_KEY) picks one.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		if v := os.Getenv(b.name); v != "" {
			*b.dst(&cfg) = v
		}
	}
	if os.Getenv("LITGUESS_LLM_PROVIDER") != "" {
		return cfg
	}
	for _, k := range vendorKeys {
		if v := os.Getenv(k.env); v != "" {
			cfg.Provider = k.provider
			if p := k.dst(&cfg); *p == "" {
				*p = v
			}
			break
		}
	}
	return cfg
}

// Validate reports a missing API key for the selected provider.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case ProviderAnthropic:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	case ProviderOpenRouter:
		key = c.OpenRouter.APIKey
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("no API key for LLM provider %q (set LITGUESS_%s_API_KEY)", c.Provider, strings.ToUpper(c.Provider))
	}
	return nil
}
