package ai

import (
	"context"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// DefaultCheckTimeout bounds one connectivity check.
const DefaultCheckTimeout = 10 * time.Second

// ConfigValidator checks provider settings against the live service.
type ConfigValidator struct {
	timeout time.Duration
	check   func(context.Context, *domain.LLMSettings) error
}

// NewConfigValidator creates a validator. A zero timeout uses
// DefaultCheckTimeout.
func NewConfigValidator(timeout time.Duration) *ConfigValidator {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &ConfigValidator{timeout: timeout, check: Check}
}

// ValidateLLM pings the provider described by settings.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, settings *domain.LLMSettings) error {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	return v.check(ctx, settings)
}
