// Package ai builds the completion adapter selected in the settings.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	anthropicllm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/docchat/internal/adapters/driven/llm/llmhttp"
	ollamallm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docchat/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

type constructor func(ctx context.Context, s *domain.LLMSettings) (driven.LLMService, error)

var constructors = map[domain.AIProvider]constructor{
	domain.AIProviderGemini: func(ctx context.Context, s *domain.LLMSettings) (driven.LLMService, error) {
		svc, err := geminillm.NewLLMService(ctx, geminillm.Config{APIKey: s.APIKey, Model: s.Model})
		if err != nil {
			return nil, err
		}
		return svc, nil
	},
	domain.AIProviderOllama: func(_ context.Context, s *domain.LLMSettings) (driven.LLMService, error) {
		return ollamallm.NewLLMService(ollamallm.Config{BaseURL: s.BaseURL, Model: s.Model}), nil
	},
	domain.AIProviderOpenAI: func(_ context.Context, s *domain.LLMSettings) (driven.LLMService, error) {
		svc, err := openaillm.NewLLMService(openaillm.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
		if err != nil {
			return nil, err
		}
		return svc, nil
	},
	domain.AIProviderAnthropic: func(_ context.Context, s *domain.LLMSettings) (driven.LLMService, error) {
		svc, err := anthropicllm.NewLLMService(anthropicllm.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
		if err != nil {
			return nil, err
		}
		return svc, nil
	},
}

// CreateLLMService builds the adapter for settings. It returns (nil, nil)
// when the provider is not configured so callers can start without one.
// Nothing is sent over the network.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	build, ok := constructors[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
	return build(ctx, settings)
}

// Check builds the adapter for settings and pings it. Unconfigured settings
// pass. Failures wrap domain.ErrLLMUnavailable and say what to fix.
func Check(ctx context.Context, settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrLLMUnavailable, explain(settings.Provider, err))
	}
	return nil
}

// explain turns a ping failure into a message with a next step.
func explain(provider domain.AIProvider, err error) string {
	switch status(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Sprintf("%s rejected the API key. Run 'docchat settings set llm.api_key' to replace it", provider)
	case http.StatusTooManyRequests:
		return fmt.Sprintf("%s is rate limiting requests, try again shortly", provider)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s did not answer in time", provider)
	}
	if provider.IsLocal() {
		return fmt.Sprintf("%v. Is 'ollama serve' running? Change the address with 'docchat settings set llm.base_url <url>'", err)
	}
	return err.Error()
}

// status extracts the HTTP status from an adapter error, or 0.
func status(err error) int {
	var se *llmhttp.StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return 0
}
