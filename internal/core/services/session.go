package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService restores, resets and persists the session.
type SessionService struct {
	state       *StateManager
	store       driven.SessionStore
	unsubscribe func()
}

// NewSessionService creates a session service and registers the
// persistence observer on state. A nil store disables persistence.
func NewSessionService(state *StateManager, store driven.SessionStore) *SessionService {
	s := &SessionService{
		state: state,
		store: store,
	}
	if store != nil {
		s.unsubscribe = state.Subscribe(s.persist)
	}
	return s
}

// persist writes the snapshot after a mutation. Empty sessions are not
// written. Failures are logged and dropped.
func (s *SessionService) persist(sess domain.Session) {
	if sess.IsEmpty() {
		return
	}
	ctx := context.Background()
	if err := s.store.Save(ctx, sess.Snapshot()); err != nil {
		logger.Warn("save session: %v", err)
	}
	if err := s.store.SaveActive(ctx, sess.ActiveID); err != nil {
		logger.Warn("save active document: %v", err)
	}
}

// Restore loads the persisted snapshot into the session.
// A missing or malformed snapshot yields an empty session.
func (s *SessionService) Restore(ctx context.Context) error {
	if s.store == nil {
		s.state.Replace(domain.NewSession())
		return nil
	}

	snap, err := s.store.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptSnapshot):
		logger.Warn("discarding unreadable session: %v", err)
		snap = nil
	case err != nil:
		return fmt.Errorf("load session: %w", err)
	}

	sess := domain.SessionFromSnapshot(snap)
	s.restoreActive(ctx, sess)
	logger.Info("restored session %q (%d documents, %d messages)",
		sess.Name, len(sess.Documents), len(sess.ConversationLog))
	s.state.Replace(sess)
	return nil
}

// restoreActive selects the stored active document when it is still a
// member; otherwise the last document stays active.
func (s *SessionService) restoreActive(ctx context.Context, sess *domain.Session) {
	if len(sess.Documents) == 0 {
		return
	}
	id, err := s.store.LoadActive(ctx)
	if err != nil {
		logger.Warn("load active document: %v", err)
		return
	}
	if id != "" && !sess.SetActive(id) {
		logger.Debug("stored active document %s is not in the session", id)
	}
}

// Reset discards documents and messages and deletes the persisted slot.
func (s *SessionService) Reset(ctx context.Context) error {
	var clearErr error
	s.state.Update(func(sess *domain.Session) bool {
		sess.Reset()
		if s.store != nil {
			clearErr = s.store.Clear(ctx)
		}
		return true
	})
	if clearErr != nil {
		return fmt.Errorf("clear session: %w", clearErr)
	}
	logger.Info("session reset")
	return nil
}

// Snapshot returns a copy of the current session.
func (s *SessionService) Snapshot(_ context.Context) (*domain.Session, error) {
	sess := s.state.Snapshot()
	return &sess, nil
}

// Subscribe registers fn for change notifications.
func (s *SessionService) Subscribe(fn func(domain.Session)) func() {
	return s.state.Subscribe(fn)
}

// Close detaches the persistence observer.
func (s *SessionService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}
