package anthropic

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/thomas-vilte/issuecost/internal/ai"
	domainErrors "github.com/thomas-vilte/issuecost/internal/errors"
	"github.com/thomas-vilte/issuecost/internal/logger"
)

var _ ai.Completer = (*Provider)(nil)

type messageCreator interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Provider completes prompts against the Anthropic messages API.
type Provider struct {
	messages messageCreator
	model    anthropic.Model
}

func NewProvider(apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing.
			WithContext("provider", "anthropic")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Provider{
		messages: &client.Messages,
		model:    anthropic.Model(model),
	}, nil
}

func NewProviderWithClient(messages messageCreator, model string) *Provider {
	return &Provider{
		messages: messages,
		model:    anthropic.Model(model),
	}
}

func (p *Provider) ProviderName() string {
	return "anthropic"
}

func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContext(ctx)

	log.Debug("calling anthropic API",
		"model", string(p.model),
		"prompt_length", len(prompt))

	message, err := p.messages.New(ctx, anthropic.MessageNewParams{
		Model:     p.model,
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		log.Error("anthropic API call failed",
			"error", err,
			"model", string(p.model))
		return "", classifyError(err)
	}

	if len(message.Content) == 0 {
		return "", domainErrors.ErrInvalidAIOutput.
			WithContext("provider", "anthropic")
	}

	content := message.Content[0]
	if content.Type != "text" {
		return "", domainErrors.ErrInvalidAIOutput.
			WithContext("provider", "anthropic").
			WithContext("content_type", string(content.Type))
	}

	return content.Text, nil
}

func classifyError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return domainErrors.ErrAPIKeyInvalid.WithError(err).
				WithContext("provider", "anthropic")
		case apiErr.StatusCode == 429:
			return domainErrors.ErrQuotaExceeded.WithError(err).
				WithContext("provider", "anthropic")
		}
	}
	return domainErrors.ErrAIGeneration.WithError(err)
}
