package accounts

import (
	"context"
	"sync"
)

// MemoryRepository is a simple in-memory account store used for local runs
// and unit tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*Account
	byID       map[string]*Account
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byUsername: make(map[string]*Account),
		byID:       make(map[string]*Account),
	}
}

func (m *MemoryRepository) Create(ctx context.Context, a *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUsername[a.Username]; ok {
		return ErrDuplicateUsername
	}
	cp := *a
	m.byUsername[cp.Username] = &cp
	m.byID[cp.ID] = &cp
	return nil
}

func (m *MemoryRepository) GetByUsername(ctx context.Context, username string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byUsername[username]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}
