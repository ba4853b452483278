package services

import (
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// StateManager owns the single Session of the process.
//
// Reads take a shared lock. Mutations are serialised and observers run
// after each mutation, before the next one starts, so observers see
// sessions in mutation order. Observers must not call Update or Replace.
type StateManager struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	session *domain.Session

	obsMu     sync.Mutex
	observers map[int]func(domain.Session)
	order     []int
	nextID    int
}

// NewStateManager creates a state manager holding an empty session.
func NewStateManager() *StateManager {
	return &StateManager{
		session:   domain.NewSession(),
		observers: make(map[int]func(domain.Session)),
	}
}

// Read calls fn with the session under a read lock.
// fn must not retain the pointer.
func (m *StateManager) Read(fn func(s *domain.Session)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn(m.session)
}

// Snapshot returns a deep copy of the session.
func (m *StateManager) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Clone()
}

// Update applies fn to the session. When fn reports a change, observers
// are notified with a copy of the new state.
func (m *StateManager) Update(fn func(s *domain.Session) bool) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	changed := fn(m.session)
	var snapshot domain.Session
	if changed {
		snapshot = m.session.Clone()
	}
	m.mu.Unlock()

	if changed {
		m.notify(snapshot)
	}
}

// Replace swaps in a new session and notifies observers.
func (m *StateManager) Replace(s *domain.Session) {
	if s == nil {
		s = domain.NewSession()
	}
	m.Update(func(cur *domain.Session) bool {
		*cur = s.Clone()
		return true
	})
}

// Subscribe registers fn for change notifications.
// Observers are called in subscription order.
func (m *StateManager) Subscribe(fn func(domain.Session)) func() {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()

	id := m.nextID
	m.nextID++
	m.observers[id] = fn
	m.order = append(m.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.obsMu.Lock()
			defer m.obsMu.Unlock()
			delete(m.observers, id)
			for i, oid := range m.order {
				if oid == id {
					m.order = append(m.order[:i], m.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (m *StateManager) notify(s domain.Session) {
	m.obsMu.Lock()
	fns := make([]func(domain.Session), 0, len(m.order))
	for _, id := range m.order {
		fns = append(fns, m.observers[id])
	}
	m.obsMu.Unlock()

	for _, fn := range fns {
		fn(s.Clone())
	}
}
