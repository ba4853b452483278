package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// It keeps the serialised snapshot so Load behaves like a real slot.
type SessionStore struct {
	mu     sync.RWMutex
	data   []byte
	active string
	saves  int
}

// NewSessionStore creates an empty in-memory session slot.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Load decodes the stored snapshot.
func (s *SessionStore) Load(_ context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.data == nil {
		return nil, nil
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(s.data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save overwrites the stored snapshot.
func (s *SessionStore) Save(_ context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.saves++
	return nil
}

// LoadActive returns the stored active id.
func (s *SessionStore) LoadActive(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active, nil
}

// SaveActive overwrites the active id.
func (s *SessionStore) SaveActive(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = id
	return nil
}

// Clear deletes the stored snapshot and active id.
func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	s.active = ""
	return nil
}

// Close is a no-op.
func (s *SessionStore) Close() error {
	return nil
}

// SetRaw replaces the stored bytes verbatim.
func (s *SessionStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

// Raw returns a copy of the stored bytes, or nil when the slot is empty.
func (s *SessionStore) Raw() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil
	}
	return append([]byte(nil), s.data...)
}

// SaveCount returns how many times Save succeeded.
func (s *SessionStore) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
