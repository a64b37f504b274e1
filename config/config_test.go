package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, settings.Provider)
	assert.Empty(t, settings.Model)
	assert.Equal(t, 4096, settings.MaxOutputTokens)
	assert.Equal(t, 2000, settings.Budget.MaxTokensPerRequest)
	assert.Equal(t, 10, settings.Budget.MaxRequestsPerMinute)
	assert.Equal(t, 5.0, settings.Budget.MaxCostPerHour)
	assert.Equal(t, 100000, settings.Budget.MaxTokensPerHour)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("AI_MODEL", "claude-3-5-haiku-20241022")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("MAX_REQUESTS_PER_MINUTE", "25")
	t.Setenv("MAX_COST_PER_HOUR", "2.5")

	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, settings.Provider)
	assert.Equal(t, "claude-3-5-haiku-20241022", settings.Model)
	assert.Equal(t, "sk-test", settings.AnthropicAPIKey)
	assert.Equal(t, 25, settings.Budget.MaxRequestsPerMinute)
	assert.Equal(t, 2.5, settings.Budget.MaxCostPerHour)
}

func TestLoadUnknownProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "cohere")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
