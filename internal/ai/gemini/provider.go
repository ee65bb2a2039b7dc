package gemini

import (
	"context"
	"strings"

	"github.com/thomas-vilte/issuecost/internal/ai"
	domainErrors "github.com/thomas-vilte/issuecost/internal/errors"
	"github.com/thomas-vilte/issuecost/internal/logger"
	"google.golang.org/genai"
)

var _ ai.Completer = (*Provider)(nil)

type generateContentClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Provider completes prompts against the Gemini API.
type Provider struct {
	models generateContentClient
	model  string
}

func NewProvider(ctx context.Context, apiKey, model string) (*Provider, error) {
	if apiKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing.
			WithContext("provider", "gemini")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "invalid") ||
			strings.Contains(errMsg, "unauthorized") ||
			strings.Contains(errMsg, "api key") ||
			strings.Contains(errMsg, "authentication") {
			return nil, domainErrors.ErrAPIKeyInvalid.WithError(err).
				WithContext("provider", "gemini")
		}
		return nil, domainErrors.NewAppError(domainErrors.TypeAI, "error creating Gemini client", err)
	}

	return &Provider{
		models: client.Models,
		model:  model,
	}, nil
}

func NewProviderWithClient(models generateContentClient, model string) *Provider {
	return &Provider{
		models: models,
		model:  model,
	}
}

func (p *Provider) ProviderName() string {
	return "gemini"
}

func (p *Provider) Complete(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContext(ctx)

	log.Debug("calling gemini API",
		"model", p.model,
		"prompt_length", len(prompt))

	config := &genai.GenerateContentConfig{
		Temperature:     float32Ptr(0.3),
		MaxOutputTokens: int32(4096),
	}

	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(prompt), config)
	if err != nil {
		log.Error("gemini API call failed",
			"error", err,
			"model", p.model)
		return "", classifyError(err)
	}

	text := extractText(resp)
	if text == "" {
		return "", domainErrors.ErrInvalidAIOutput.
			WithContext("provider", "gemini")
	}

	return text, nil
}

func classifyError(err error) error {
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "quota") ||
		strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "resource exhausted") {
		return domainErrors.ErrQuotaExceeded.WithError(err).
			WithContext("provider", "gemini")
	}
	if strings.Contains(errMsg, "invalid") ||
		strings.Contains(errMsg, "unauthorized") ||
		strings.Contains(errMsg, "api key") {
		return domainErrors.ErrAPIKeyInvalid.WithError(err).
			WithContext("provider", "gemini")
	}
	return domainErrors.ErrAIGeneration.WithError(err)
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	var out strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.Thought {
				continue
			}
			out.WriteString(part.Text)
		}
	}
	return out.String()
}

func float32Ptr(f float32) *float32 {
	return &f
}
