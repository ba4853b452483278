package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AIConfigValidator checks completion settings against the live provider.
type AIConfigValidator interface {
	// ValidateLLM returns nil when the provider answers, or when settings
	// are not configured enough to try.
	ValidateLLM(ctx context.Context, settings *domain.LLMSettings) error
}
