package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/docchat/internal/adapters/driven/llm/llmhttp"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
	}{
		{"nil settings", nil, true},
		{"empty settings", &domain.LLMSettings{}, true},
		{"gemini without key", &domain.LLMSettings{Provider: domain.AIProviderGemini}, true},
		{"unknown provider", &domain.LLMSettings{Provider: "bard", APIKey: "k"}, true},
		{"ollama", &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"}, false},
		{"openai", &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "k"}, false},
		{"anthropic", &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(context.Background(), tt.settings)

			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.NoError(t, svc.Close())
		})
	}
}

func TestCreateLLMService_EveryProviderHasAConstructor(t *testing.T) {
	for _, p := range domain.AllLLMProviders() {
		assert.Contains(t, constructors, p)
	}
}

func TestCreateLLMService_UsesConfiguredModel(t *testing.T) {
	svc, err := CreateLLMService(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		Model:    "mistral",
	})
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "mistral", svc.ModelName())
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		provider domain.AIProvider
		status   int
		body     string
		wantErr  string
	}{
		{"ollama ok", domain.AIProviderOllama, http.StatusOK, `{"models":[{"name":"llama3.2:latest"}]}`, ""},
		{"ollama down", domain.AIProviderOllama, http.StatusInternalServerError, `boom`, "ollama serve"},
		{"openai ok", domain.AIProviderOpenAI, http.StatusOK, `{"data":[]}`, ""},
		{"openai bad key", domain.AIProviderOpenAI, http.StatusUnauthorized, `{"error":{"message":"invalid key"}}`, "rejected the API key"},
		{"anthropic throttled", domain.AIProviderAnthropic, http.StatusTooManyRequests, `{}`, "rate limiting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := Check(context.Background(), &domain.LLMSettings{
				Provider: tt.provider,
				Model:    "llama3.2",
				BaseURL:  server.URL,
				APIKey:   "key",
			})

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrLLMUnavailable)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheck_UnconfiguredPasses(t *testing.T) {
	assert.NoError(t, Check(context.Background(), &domain.LLMSettings{Provider: domain.AIProviderGemini}))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, 403, status(fmt.Errorf("wrapped: %w", &llmhttp.StatusError{Provider: "openai", Status: 403})))
	assert.Equal(t, 429, status(&googleapi.Error{Code: 429}))
	assert.Zero(t, status(errors.New("dial tcp: connection refused")))
}

func TestExplain_Timeout(t *testing.T) {
	msg := explain(domain.AIProviderGemini, fmt.Errorf("ping: %w", context.DeadlineExceeded))

	assert.Equal(t, "gemini did not answer in time", msg)
}
