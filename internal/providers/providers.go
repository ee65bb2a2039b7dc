// Package providers wires configuration to a concrete text-generation backend.
package providers

import (
	"context"

	"github.com/thomas-vilte/issuecost/internal/ai"
	"github.com/thomas-vilte/issuecost/internal/ai/anthropic"
	"github.com/thomas-vilte/issuecost/internal/ai/gemini"
	"github.com/thomas-vilte/issuecost/internal/ai/openai"
	"github.com/thomas-vilte/issuecost/internal/config"
	domainErrors "github.com/thomas-vilte/issuecost/internal/errors"
)

// NewCompleter builds the completer for the configured provider.
func NewCompleter(ctx context.Context, cfg *config.Config) (ai.Completer, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return gemini.NewProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderOpenAI:
		return openai.NewProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case config.ProviderAnthropic:
		return anthropic.NewProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		return nil, domainErrors.ErrUnknownProvider.
			WithContext("provider", cfg.LLMProvider)
	}
}
