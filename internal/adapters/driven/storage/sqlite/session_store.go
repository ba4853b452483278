package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// kv_store keys of the session slots.
const (
	SessionKey = "docchat.session"
	ActiveKey  = "docchat.active"
)

// sessionStore implements driven.SessionStore on two kv_store rows.
type sessionStore struct {
	store     *Store
	key       string
	activeKey string
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Load decodes the stored snapshot.
func (s *sessionStore) Load(ctx context.Context) (*domain.Snapshot, error) {
	value, err := s.store.get(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptSnapshot, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Save overwrites the stored snapshot.
func (s *sessionStore) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	return s.store.put(ctx, s.key, string(data))
}

// LoadActive returns the stored active id.
func (s *sessionStore) LoadActive(ctx context.Context) (string, error) {
	id, err := s.store.get(ctx, s.activeKey)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	return id, err
}

// SaveActive overwrites the active id; an empty id deletes the row.
func (s *sessionStore) SaveActive(ctx context.Context, id string) error {
	if id == "" {
		return s.store.remove(ctx, s.activeKey)
	}
	return s.store.put(ctx, s.activeKey, id)
}

// Clear deletes both rows.
func (s *sessionStore) Clear(ctx context.Context) error {
	if err := s.store.remove(ctx, s.key); err != nil {
		return err
	}
	return s.store.remove(ctx, s.activeKey)
}

// Close closes the underlying database.
func (s *sessionStore) Close() error {
	return s.store.Close()
}
