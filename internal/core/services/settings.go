package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

var _ driving.SettingsService = (*SettingsService)(nil)

//nolint:gosec // G101: key names, not credentials.
const (
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keySessionStorage = "session.storage"
)

// apiKeyEnvVars override the stored key, first non-blank wins.
//
//nolint:gosec // G101: variable names, not credentials.
var apiKeyEnvVars = []string{"DOCCHAT_API_KEY", "GEMINI_API_KEY"}

const defaultOllamaURL = "http://localhost:11434"

// settingKeys maps each editable key to its value check. A nil check
// accepts any string.
var settingKeys = []struct {
	key   string
	check func(string) error
}{
	{keyLLMProvider, func(v string) error {
		if !domain.AIProvider(v).IsValid() {
			return fmt.Errorf("invalid LLM provider: %s", v)
		}
		return nil
	}},
	{keyLLMModel, nil},
	{keyLLMBaseURL, nil},
	{keyLLMAPIKey, nil},
	{keySessionStorage, func(v string) error {
		if !domain.StorageBackend(v).IsValid() {
			return fmt.Errorf("invalid storage backend: %s", v)
		}
		return nil
	}},
}

// SettingsService reads settings from a driven.ConfigStore and fills the
// gaps with domain defaults.
type SettingsService struct {
	store     driven.ConfigStore
	validator driven.AIConfigValidator
	getenv    func(string) string
}

// NewSettingsService creates the service. validator may be nil, in which
// case CheckConnection always succeeds.
func NewSettingsService(store driven.ConfigStore, validator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{store: store, validator: validator, getenv: os.Getenv}
}

// Get returns the effective settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.stored()
	if key := s.envAPIKey(); key != "" {
		settings.LLM.APIKey = key
	}
	return settings, nil
}

func (s *SettingsService) envAPIKey() string {
	for _, name := range apiKeyEnvVars {
		if v := strings.TrimSpace(s.getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// stored ignores the environment. Invalid stored values read as defaults.
func (s *SettingsService) stored() *domain.AppSettings {
	settings := domain.DefaultAppSettings()

	if p := domain.AIProvider(s.store.GetString(keyLLMProvider)); p.IsValid() {
		settings.LLM.Provider = p
	}
	settings.LLM.Model = s.store.GetString(keyLLMModel)
	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}
	// Cloud providers leave the base URL empty to use their public endpoint.
	settings.LLM.BaseURL = s.store.GetString(keyLLMBaseURL)
	settings.LLM.APIKey = s.store.GetString(keyLLMAPIKey)

	if b := domain.StorageBackend(s.store.GetString(keySessionStorage)); b.IsValid() {
		settings.Session.Storage = b
	}
	return &settings
}

// Save writes settings in one store update.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	changes := map[string]any{
		keyLLMProvider:    settings.LLM.Provider.String(),
		keyLLMModel:       settings.LLM.Model,
		keyLLMBaseURL:     settings.LLM.BaseURL,
		keySessionStorage: settings.Session.Storage.String(),
	}
	if settings.LLM.APIKey != "" {
		changes[keyLLMAPIKey] = settings.LLM.APIKey
	}
	if err := s.store.Apply(changes); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SetLLMProvider switches provider. Local providers keep a custom base URL
// and get the default one otherwise; cloud providers drop it.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings := s.stored()
	settings.LLM.Provider = provider
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	switch {
	case !provider.IsLocal():
		settings.LLM.BaseURL = ""
	case settings.LLM.BaseURL == "":
		settings.LLM.BaseURL = defaultOllamaURL
	}
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetValue changes one key. An empty value removes it.
func (s *SettingsService) SetValue(key, value string) error {
	value = strings.TrimSpace(value)

	for _, k := range settingKeys {
		if k.key != key {
			continue
		}
		if value == "" {
			return s.store.Delete(key)
		}
		if k.check != nil {
			if err := k.check(value); err != nil {
				return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
			}
		}
		return s.store.Set(key, value)
	}
	return fmt.Errorf("%w: unknown setting %q (valid: %s)",
		domain.ErrInvalidInput, key, strings.Join(s.Keys(), ", "))
}

// Keys lists the keys SetValue accepts.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	for i, k := range settingKeys {
		keys[i] = k.key
	}
	return keys
}

// Validate reports settings that cannot work without contacting anything.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("%w: %s requires an API key (set llm.api_key or %s)",
			domain.ErrLLMUnavailable, settings.LLM.Provider, apiKeyEnvVars[0])
	}
	return nil
}

// CheckConnection pings the configured provider through the validator.
func (s *SettingsService) CheckConnection(ctx context.Context) error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateLLM(ctx, &settings.LLM)
}
