package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/certificates"
)

// MemoryRepo is a simple in-memory certificate store used for local runs
// and unit tests. It preserves insertion order so derived listings tie-break
// the same way the Mongo store does.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []string
	store map[string]*certificates.Certificate
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*certificates.Certificate)}
}

func (m *MemoryRepo) Create(ctx context.Context, c *certificates.Certificate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[c.AssetID]; ok {
		return certificates.ErrDuplicateAsset
	}
	cp := *c
	m.store[cp.AssetID] = &cp
	m.order = append(m.order, cp.AssetID)
	return nil
}

func (m *MemoryRepo) GetByAsset(ctx context.Context, assetID string) (*certificates.Certificate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[assetID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryRepo) GetOwnedByAsset(ctx context.Context, ownerID, assetID string) (*certificates.Certificate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[assetID]
	if !ok || c.OwnerID != ownerID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryRepo) ListByOwner(ctx context.Context, ownerID string) ([]*certificates.Certificate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*certificates.Certificate{}
	for _, id := range m.order {
		if c, ok := m.store[id]; ok && c.OwnerID == ownerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryRepo) ListAll(ctx context.Context) ([]*certificates.Certificate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*certificates.Certificate{}
	for _, id := range m.order {
		if c, ok := m.store[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryRepo) SetDocumentKey(ctx context.Context, assetID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[assetID]
	if !ok {
		return certificates.ErrNotFound
	}
	c.DocumentKey = key
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepo) DeleteOwnedByAsset(ctx context.Context, ownerID, assetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[assetID]
	if !ok || c.OwnerID != ownerID {
		return certificates.ErrNotFound
	}
	delete(m.store, assetID)
	for i, id := range m.order {
		if id == assetID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
