package ai

import "context"

// Completer is the single capability the classifier needs from a
// text-generation backend. Backend selection is a configuration concern.
type Completer interface {
	// Complete sends a prompt and returns the raw model output.
	Complete(ctx context.Context, prompt string) (string, error)

	// ProviderName returns the name of the provider (e.g. "gemini", "openai", "anthropic")
	ProviderName() string
}
