package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestStateManager_StartsEmpty(t *testing.T) {
	m := NewStateManager()

	s := m.Snapshot()
	assert.Equal(t, domain.DefaultSessionName, s.Name)
	assert.True(t, s.IsEmpty())
}

func TestStateManager_Update_NotifiesOnChange(t *testing.T) {
	m := NewStateManager()
	var got []domain.Session
	m.Subscribe(func(s domain.Session) { got = append(got, s) })

	m.Update(func(s *domain.Session) bool { return false })
	assert.Empty(t, got)

	m.Update(func(s *domain.Session) bool {
		s.Append(domain.NewUserMessage("hi"))
		return true
	})
	require.Len(t, got, 1)
	assert.Len(t, got[0].ConversationLog, 1)
}

func TestStateManager_ObserversGetCopies(t *testing.T) {
	m := NewStateManager()
	m.Subscribe(func(s domain.Session) {
		s.Name = "mutated"
		s.ConversationLog = nil
	})

	m.Update(func(s *domain.Session) bool {
		s.Append(domain.NewUserMessage("hi"))
		return true
	})

	s := m.Snapshot()
	assert.Equal(t, domain.DefaultSessionName, s.Name)
	assert.Len(t, s.ConversationLog, 1)
}

func TestStateManager_SubscriptionOrderAndUnsubscribe(t *testing.T) {
	m := NewStateManager()
	var order []string
	m.Subscribe(func(domain.Session) { order = append(order, "a") })
	unsubB := m.Subscribe(func(domain.Session) { order = append(order, "b") })
	m.Subscribe(func(domain.Session) { order = append(order, "c") })

	m.Replace(domain.NewSession())
	assert.Equal(t, []string{"a", "b", "c"}, order)

	unsubB()
	unsubB()
	order = nil
	m.Replace(nil)
	assert.Equal(t, []string{"a", "c"}, order)
}

func TestStateManager_ConcurrentUpdates(t *testing.T) {
	m := NewStateManager()
	var (
		mu    sync.Mutex
		sizes []int
	)
	m.Subscribe(func(s domain.Session) {
		mu.Lock()
		sizes = append(sizes, len(s.ConversationLog))
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Update(func(s *domain.Session) bool {
				s.Append(domain.NewUserMessage("q"))
				return true
			})
			_ = m.Snapshot()
		}()
	}
	wg.Wait()

	assert.Len(t, m.Snapshot().ConversationLog, 50)
	// Notifications arrive in mutation order.
	require.Len(t, sizes, 50)
	for i, n := range sizes {
		assert.Equal(t, i+1, n)
	}
}
