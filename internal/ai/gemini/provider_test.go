package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/issuecost/internal/errors"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return f.resp, f.err
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func TestNewProvider(t *testing.T) {
	t.Run("should require an API key", func(t *testing.T) {
		_, err := NewProvider(context.Background(), "", "gemini-2.5-flash")

		require.Error(t, err)
		assert.Equal(t, domainErrors.TypeConfiguration, domainErrors.TypeOf(err))
	})
}

func TestProvider_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("should concatenate text parts", func(t *testing.T) {
		fake := &fakeModels{resp: textResponse(
			&genai.Part{Text: `{"complexity": `},
			&genai.Part{Text: `"Low"}`},
		)}
		p := NewProviderWithClient(fake, "gemini-2.5-flash")

		got, err := p.Complete(ctx, "prompt")

		require.NoError(t, err)
		assert.Equal(t, `{"complexity": "Low"}`, got)
	})

	t.Run("should skip thinking parts", func(t *testing.T) {
		fake := &fakeModels{resp: textResponse(
			&genai.Part{Text: "internal reasoning", Thought: true},
			&genai.Part{Text: "final answer"},
		)}
		p := NewProviderWithClient(fake, "gemini-2.5-flash")

		got, err := p.Complete(ctx, "prompt")

		require.NoError(t, err)
		assert.Equal(t, "final answer", got)
	})

	t.Run("should fail on an empty response", func(t *testing.T) {
		fake := &fakeModels{resp: &genai.GenerateContentResponse{}}
		p := NewProviderWithClient(fake, "gemini-2.5-flash")

		_, err := p.Complete(ctx, "prompt")

		require.Error(t, err)
		assert.Equal(t, domainErrors.TypeAI, domainErrors.TypeOf(err))
	})

	t.Run("should classify quota errors", func(t *testing.T) {
		fake := &fakeModels{err: errors.New("googleapi: Error 429: resource exhausted")}
		p := NewProviderWithClient(fake, "gemini-2.5-flash")

		_, err := p.Complete(ctx, "prompt")

		require.Error(t, err)
		appErr, ok := err.(*domainErrors.AppError)
		require.True(t, ok)
		assert.Equal(t, domainErrors.ErrQuotaExceeded.Message, appErr.Message)
	})

	t.Run("should classify invalid key errors", func(t *testing.T) {
		fake := &fakeModels{err: errors.New("API key not valid, unauthorized")}
		p := NewProviderWithClient(fake, "gemini-2.5-flash")

		_, err := p.Complete(ctx, "prompt")

		require.Error(t, err)
		appErr, ok := err.(*domainErrors.AppError)
		require.True(t, ok)
		assert.Equal(t, domainErrors.ErrAPIKeyInvalid.Message, appErr.Message)
	})

	t.Run("should fall back to a generic AI error", func(t *testing.T) {
		fake := &fakeModels{err: errors.New("connection reset")}
		p := NewProviderWithClient(fake, "gemini-2.5-flash")

		_, err := p.Complete(ctx, "prompt")

		require.Error(t, err)
		appErr, ok := err.(*domainErrors.AppError)
		require.True(t, ok)
		assert.Equal(t, domainErrors.ErrAIGeneration.Message, appErr.Message)
	})
}
