package openai

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/issuecost/internal/errors"
)

type fakeChatCompleter struct {
	resp openai.ChatCompletionResponse
	err  error
	got  openai.ChatCompletionRequest
}

func (f *fakeChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.got = req
	return f.resp, f.err
}

func TestNewProvider(t *testing.T) {
	t.Run("should require an API key", func(t *testing.T) {
		_, err := NewProvider("", "gpt-4o")

		require.Error(t, err)
		assert.Equal(t, domainErrors.TypeConfiguration, domainErrors.TypeOf(err))
	})

	t.Run("should build with a key", func(t *testing.T) {
		p, err := NewProvider("sk-test", "gpt-4o")

		require.NoError(t, err)
		assert.Equal(t, "openai", p.ProviderName())
	})
}

func TestProvider_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("should send system and user messages", func(t *testing.T) {
		fake := &fakeChatCompleter{
			resp: openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{
					{Message: openai.ChatCompletionMessage{Content: `{"complexity": "Low"}`}},
				},
			},
		}
		p := NewProviderWithClient(fake, "gpt-4o")

		got, err := p.Complete(ctx, "classify this issue")

		require.NoError(t, err)
		assert.Equal(t, `{"complexity": "Low"}`, got)
		require.Len(t, fake.got.Messages, 2)
		assert.Equal(t, openai.ChatMessageRoleSystem, fake.got.Messages[0].Role)
		assert.Equal(t, "classify this issue", fake.got.Messages[1].Content)
		assert.Equal(t, "gpt-4o", fake.got.Model)
	})

	t.Run("should fail on an empty choice list", func(t *testing.T) {
		p := NewProviderWithClient(&fakeChatCompleter{}, "gpt-4o")

		_, err := p.Complete(ctx, "prompt")

		require.Error(t, err)
		assert.Equal(t, domainErrors.TypeAI, domainErrors.TypeOf(err))
	})

	t.Run("should classify quota errors", func(t *testing.T) {
		fake := &fakeChatCompleter{err: errors.New("429 rate limit exceeded")}
		p := NewProviderWithClient(fake, "gpt-4o")

		_, err := p.Complete(ctx, "prompt")

		require.Error(t, err)
		appErr, ok := err.(*domainErrors.AppError)
		require.True(t, ok)
		assert.Equal(t, domainErrors.ErrQuotaExceeded.Message, appErr.Message)
	})

	t.Run("should classify invalid key errors", func(t *testing.T) {
		fake := &fakeChatCompleter{err: errors.New("401 incorrect API key provided")}
		p := NewProviderWithClient(fake, "gpt-4o")

		_, err := p.Complete(ctx, "prompt")

		require.Error(t, err)
		appErr, ok := err.(*domainErrors.AppError)
		require.True(t, ok)
		assert.Equal(t, domainErrors.ErrAPIKeyInvalid.Message, appErr.Message)
	})
}
