package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/issuecost/internal/config"
	domainErrors "github.com/thomas-vilte/issuecost/internal/errors"
)

func TestNewCompleter(t *testing.T) {
	ctx := context.Background()

	t.Run("should reject an unknown provider", func(t *testing.T) {
		cfg := &config.Config{LLMProvider: "skynet"}

		_, err := NewCompleter(ctx, cfg)

		require.Error(t, err)
		assert.Equal(t, domainErrors.TypeConfiguration, domainErrors.TypeOf(err))
	})

	t.Run("should build the openai completer", func(t *testing.T) {
		cfg := &config.Config{
			LLMProvider:  config.ProviderOpenAI,
			OpenAIAPIKey: "sk-test",
			OpenAIModel:  "gpt-4o",
		}

		completer, err := NewCompleter(ctx, cfg)

		require.NoError(t, err)
		assert.Equal(t, "openai", completer.ProviderName())
	})

	t.Run("should build the anthropic completer", func(t *testing.T) {
		cfg := &config.Config{
			LLMProvider:     config.ProviderAnthropic,
			AnthropicAPIKey: "sk-ant-test",
			AnthropicModel:  "claude-3-5-sonnet-20241022",
		}

		completer, err := NewCompleter(ctx, cfg)

		require.NoError(t, err)
		assert.Equal(t, "anthropic", completer.ProviderName())
	})

	t.Run("should surface a missing API key", func(t *testing.T) {
		cfg := &config.Config{LLMProvider: config.ProviderOpenAI}

		_, err := NewCompleter(ctx, cfg)

		require.Error(t, err)
		assert.Equal(t, domainErrors.TypeConfiguration, domainErrors.TypeOf(err))
	})
}
