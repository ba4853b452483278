package driven

// ConfigStore holds the persisted settings as flat dotted keys
// ("llm.provider", "session.storage"). Every write is persisted before it
// returns.
type ConfigStore interface {
	// Get returns the raw value stored under key.
	Get(key string) (any, bool)

	// GetString returns the value under key, or "" when it is missing or
	// not a string.
	GetString(key string) string

	// Set writes one key.
	Set(key string, value any) error

	// Apply writes several keys in one persist. A nil value removes its key.
	Apply(changes map[string]any) error

	// Delete removes key. Removing a missing key is not an error.
	Delete(key string) error

	// Load discards the in-memory state and reads the backing storage again.
	Load() error

	// Path describes where the settings live.
	Path() string
}
