// Package config loads provider and budget settings from the environment
// and an optional adhive config file. Every tunable has a default, so an
// empty environment yields a working (if credential-less) configuration:
// providers without API keys degrade to permanently failing variants rather
// than aborting startup.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/getadhive/adhive/budget"
)

// Provider names a model backend.
type Provider string

const (
	// ProviderOpenAI selects the OpenAI chat-completions backend.
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic selects the Anthropic messages backend.
	ProviderAnthropic Provider = "anthropic"
)

// Settings aggregates everything needed to wire a hive.
type Settings struct {
	Provider        Provider
	Model           string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	MaxOutputTokens int
	Budget          budget.Config
}

// Load reads settings from the environment (AI_PROVIDER, AI_MODEL,
// OPENAI_API_KEY, ANTHROPIC_API_KEY, MAX_OUTPUT_TOKENS and the four budget
// tunables) layered over an optional adhive.yaml in the working directory.
func Load(optFns ...func(v *viper.Viper)) (Settings, error) {
	v := viper.New()

	v.SetDefault("ai_provider", string(ProviderOpenAI))
	v.SetDefault("ai_model", "")
	v.SetDefault("max_output_tokens", 4096)
	v.SetDefault("max_tokens_per_request", 2000)
	v.SetDefault("max_requests_per_minute", 10)
	v.SetDefault("max_cost_per_hour", 5.0)
	v.SetDefault("max_tokens_per_hour", 100000)

	v.SetConfigName("adhive")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	for _, fn := range optFns {
		fn(v)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	provider := Provider(v.GetString("ai_provider"))
	switch provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return Settings{}, fmt.Errorf("unknown provider: %q", provider)
	}

	return Settings{
		Provider:        provider,
		Model:           v.GetString("ai_model"),
		OpenAIAPIKey:    v.GetString("openai_api_key"),
		AnthropicAPIKey: v.GetString("anthropic_api_key"),
		MaxOutputTokens: v.GetInt("max_output_tokens"),
		Budget: budget.Config{
			MaxTokensPerRequest:  v.GetInt("max_tokens_per_request"),
			MaxRequestsPerMinute: v.GetInt("max_requests_per_minute"),
			MaxCostPerHour:       v.GetFloat64("max_cost_per_hour"),
			MaxTokensPerHour:     v.GetInt("max_tokens_per_hour"),
		},
	}, nil
}
