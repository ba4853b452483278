package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// SessionService owns the session lifecycle and its persistence.
type SessionService interface {
	// Restore loads the persisted snapshot into the session.
	// A missing or malformed snapshot yields an empty session.
	Restore(ctx context.Context) error

	// Reset discards documents and messages and deletes the persisted slot.
	Reset(ctx context.Context) error

	// Snapshot returns a copy of the current session.
	Snapshot(ctx context.Context) (*domain.Session, error)

	// Subscribe registers fn to be called with a copy of the session after
	// every mutation. The returned function removes the subscription.
	Subscribe(fn func(domain.Session)) (unsubscribe func())
}
