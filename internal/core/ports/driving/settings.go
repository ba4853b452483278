package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// SettingsService reads and changes the persisted configuration.
type SettingsService interface {
	// Get returns the effective settings: stored values, defaults for
	// anything missing, and the API key from the environment when set.
	Get() (*domain.AppSettings, error)

	// Save stores settings in a single write. An empty API key leaves the
	// stored key alone.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider switches provider, resetting model and base URL to
	// that provider's defaults unless given.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetValue changes one key such as "llm.model". An empty value
	// restores the default.
	SetValue(key, value string) error

	// Keys lists the keys SetValue accepts.
	Keys() []string

	// Validate checks the settings without contacting the provider.
	Validate() error

	// CheckConnection pings the configured provider.
	CheckConnection(ctx context.Context) error
}
