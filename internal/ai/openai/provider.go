package openai

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/thomas-vilte/issuecost/internal/ai"
	domainErrors "github.com/thomas-vilte/issuecost/internal/errors"
	"github.com/thomas-vilte/issuecost/internal/logger"
)

var _ ai.Completer = (*Provider)(nil)

const systemPrompt = "You are an expert software project manager who estimates task complexity and costs."

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Provider completes prompts against the OpenAI chat completions API.
type Provider struct {
	client chatCompleter
	model  string
}

func NewProvider(apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing.
			WithContext("provider", "openai")
	}

	return &Provider{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func NewProviderWithClient(client chatCompleter, model string) *Provider {
	return &Provider{
		client: client,
		model:  model,
	}
}

func (p *Provider) ProviderName() string {
	return "openai"
}

func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContext(ctx)

	log.Debug("calling openai API",
		"model", p.model,
		"prompt_length", len(prompt))

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
		MaxTokens:   4096,
	})
	if err != nil {
		log.Error("openai API call failed",
			"error", err,
			"model", p.model)
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", domainErrors.ErrInvalidAIOutput.
			WithContext("provider", "openai")
	}

	return resp.Choices[0].Message.Content, nil
}

func classifyError(err error) error {
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "quota") ||
		strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "429") {
		return domainErrors.ErrQuotaExceeded.WithError(err).
			WithContext("provider", "openai")
	}
	if strings.Contains(errMsg, "invalid api key") ||
		strings.Contains(errMsg, "incorrect api key") ||
		strings.Contains(errMsg, "401") {
		return domainErrors.ErrAPIKeyInvalid.WithError(err).
			WithContext("provider", "openai")
	}
	return domainErrors.ErrAIGeneration.WithError(err)
}
