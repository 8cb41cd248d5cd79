package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderPerplexity = "perplexity"
)

var errUnknownProvider = errors.New("unknown provider")

type AI struct {
	Provider         string        `env:"AI_PROVIDER" envDefault:"gemini"`
	Model            string        `env:"AI_MODEL"`
	BlogModel        string        `env:"AI_BLOG_MODEL"`
	Temperature      float32       `env:"AI_TEMPERATURE" envDefault:"0.4"`
	BlogTemperature  float32       `env:"AI_BLOG_TEMPERATURE" envDefault:"0.6"`
	Timeout          time.Duration `env:"AI_TIMEOUT" envDefault:"180s"`
	// BaseURL overrides the endpoint of OpenAI-compatible providers.
	BaseURL          string        `env:"AI_BASE_URL"`
	GeminiAPIKey     string        `env:"GEMINI_API_KEY" json:"-"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY" json:"-"`
	AnthropicAPIKey  string        `env:"ANTHROPIC_API_KEY" json:"-"`
	PerplexityAPIKey string        `env:"PERPLEXITY_API_KEY" json:"-"`
}

//nolint:gochecknoglobals
var defaultModels = map[string]string{
	ProviderGemini:     "gemini-2.5-flash",
	ProviderOpenAI:     "gpt-4o",
	ProviderAnthropic:  "claude-sonnet-4-20250514",
	ProviderPerplexity: "sonar-pro",
}

func (a *AI) validate() error {
	def, ok := defaultModels[a.Provider]
	if !ok {
		return fmt.Errorf("%q: %w", a.Provider, errUnknownProvider)
	}

	if a.Model == "" {
		a.Model = def
	}

	if a.BlogModel == "" {
		a.BlogModel = a.Model
	}

	return nil
}

// APIKey returns the key of the selected provider.
func (a AI) APIKey() string {
	switch a.Provider {
	case ProviderOpenAI:
		return a.OpenAIAPIKey
	case ProviderAnthropic:
		return a.AnthropicAPIKey
	case ProviderPerplexity:
		return a.PerplexityAPIKey
	default:
		return a.GeminiAPIKey
	}
}

func (a AI) Configured() bool {
	return a.APIKey() != ""
}
