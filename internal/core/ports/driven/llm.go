package driven

import "context"

// LLMService answers one prompt with one block of text. There is no
// streaming and no conversation state on the provider side: the prompt
// carries the document and the history.
type LLMService interface {
	// Generate returns the model's answer to prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName is the model requests go to unless opts.Model overrides it.
	ModelName() string

	// Ping makes the cheapest authenticated request the provider offers.
	Ping(ctx context.Context) error

	Close() error
}

// GenerateOptions tunes a single Generate call. Zero fields keep the
// provider's defaults.
type GenerateOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}
