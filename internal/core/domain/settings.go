package domain

// AIProvider names a completion service.
type AIProvider string

// Supported providers.
const (
	AIProviderGemini    AIProvider = "gemini"
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderAnthropic AIProvider = "anthropic"
)

type providerInfo struct {
	description  string
	defaultModel string
	local        bool
}

// providerOrder is the menu order of `docchat settings llm`.
var providerOrder = []AIProvider{AIProviderGemini, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}

var providers = map[AIProvider]providerInfo{
	AIProviderGemini:    {description: "Google Gemini (cloud)", defaultModel: "gemini-1.5-flash"},
	AIProviderOllama:    {description: "Ollama (local)", defaultModel: "llama3.2", local: true},
	AIProviderOpenAI:    {description: "OpenAI (cloud)", defaultModel: "gpt-4o-mini"},
	AIProviderAnthropic: {description: "Anthropic (cloud)", defaultModel: "claude-3-5-sonnet-latest"},
}

// IsValid reports whether p is a supported provider.
func (p AIProvider) IsValid() bool {
	_, ok := providers[p]
	return ok
}

// RequiresAPIKey is true for every hosted provider.
func (p AIProvider) RequiresAPIKey() bool {
	info, ok := providers[p]
	return ok && !info.local
}

// IsLocal is true for providers reached through a base URL on the user's
// machine or network.
func (p AIProvider) IsLocal() bool {
	return providers[p].local
}

func (p AIProvider) String() string {
	return string(p)
}

// Description is the label shown in menus, or "Unknown".
func (p AIProvider) Description() string {
	if info, ok := providers[p]; ok {
		return info.description
	}
	return "Unknown"
}

// DefaultModel is the model used when none is configured.
func (p AIProvider) DefaultModel() string {
	return providers[p].defaultModel
}

// AllLLMProviders returns the supported providers in menu order.
func AllLLMProviders() []AIProvider {
	return append([]AIProvider(nil), providerOrder...)
}

// DefaultLLMModels maps each provider to its default model.
func DefaultLLMModels() map[AIProvider]string {
	models := make(map[AIProvider]string, len(providers))
	for p, info := range providers {
		models[p] = info.defaultModel
	}
	return models
}

// LLMSettings selects and configures the completion provider.
type LLMSettings struct {
	Provider AIProvider
	Model    string

	// BaseURL overrides the provider endpoint. Required in practice for
	// Ollama, empty for the hosted APIs.
	BaseURL string

	APIKey string
}

// IsConfigured reports whether a request could be attempted: a supported
// provider and, for hosted ones, a key.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	return !l.Provider.RequiresAPIKey() || l.APIKey != ""
}

// StorageBackend selects where the session snapshot is kept.
type StorageBackend string

const (
	// StorageSQLite keeps the snapshot in ~/.docchat/data/docchat.db.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory forgets the session when the process exits.
	StorageMemory StorageBackend = "memory"
)

// IsValid reports whether b is a supported backend.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory
}

func (b StorageBackend) String() string {
	return string(b)
}

// SessionSettings configures session persistence.
type SessionSettings struct {
	Storage StorageBackend
}

// AppSettings is everything in config.toml.
type AppSettings struct {
	LLM     LLMSettings
	Session SessionSettings
}

// DefaultAppSettings is Gemini with its default model and SQLite storage.
// There is no default API key.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM:     LLMSettings{Provider: AIProviderGemini, Model: AIProviderGemini.DefaultModel()},
		Session: SessionSettings{Storage: StorageSQLite},
	}
}
