package cart

import (
	"context"
	"sync"

	"github.com/onemedi/onemedi/internal/platform/clientstate"
)

// Manager hands out one Store per user, rehydrating from storage on first
// access.
type Manager struct {
	storage clientstate.Storage

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(storage clientstate.Storage) *Manager {
	return &Manager{
		storage: storage,
		stores:  make(map[string]*Store),
	}
}

func (m *Manager) StoreFor(ctx context.Context, userID string) (*Store, error) {
	m.mu.Lock()
	if s, ok := m.stores[userID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	s := NewStore(m.storage, "cart:"+userID)
	m.stores[userID] = s
	m.mu.Unlock()

	if err := s.Load(ctx); err != nil {
		m.mu.Lock()
		delete(m.stores, userID)
		m.mu.Unlock()
		return nil, err
	}
	return s, nil
}
