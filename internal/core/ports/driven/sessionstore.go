package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// SessionStore persists the session snapshot in a single key-value slot.
// Writes overwrite the previous snapshot; the last write wins.
//
// The active document id lives in a second slot so the snapshot keeps its
// {pdfs, chatHistory, sessionName} shape.
type SessionStore interface {
	// Load returns the stored snapshot.
	// Returns nil, nil when the slot is empty and domain.ErrCorruptSnapshot
	// when the stored value cannot be decoded.
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Save overwrites the slot with the given snapshot.
	Save(ctx context.Context, snap *domain.Snapshot) error

	// LoadActive returns the stored active document id, or "" when unset.
	LoadActive(ctx context.Context) (string, error)

	// SaveActive overwrites the active document id.
	SaveActive(ctx context.Context, id string) error

	// Clear deletes the snapshot and the active id.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
