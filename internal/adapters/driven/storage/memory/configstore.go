package memory

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore keeps settings in a map. Tests use it in place of config.toml.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
	writes int
}

// NewConfigStore creates a store seeded with key/value pairs:
//
//	NewConfigStore("llm.provider", "ollama", "llm.model", "mistral")
//
// It panics on an odd number of arguments.
func NewConfigStore(pairs ...string) *ConfigStore {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("memory.NewConfigStore: odd number of arguments (%d)", len(pairs)))
	}
	values := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		values[pairs[i]] = pairs[i+1]
	}
	return &ConfigStore{values: values}
}

func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

func (s *ConfigStore) Set(key string, value any) error {
	return s.Apply(map[string]any{key: value})
}

func (s *ConfigStore) Apply(changes map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range changes {
		if v == nil {
			delete(s.values, k)
			continue
		}
		s.values[k] = v
	}
	s.writes++
	return nil
}

func (s *ConfigStore) Delete(key string) error {
	return s.Apply(map[string]any{key: nil})
}

// Load is a no-op: there is nothing behind the map.
func (s *ConfigStore) Load() error {
	return nil
}

func (s *ConfigStore) Path() string {
	return ":memory:"
}

// Writes reports how many persists a file-backed store would have done.
func (s *ConfigStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
