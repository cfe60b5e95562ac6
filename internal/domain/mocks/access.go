package mocks

import (
	"context"
	"sync"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/ports"
)

// EntityAccess is a mock implementation of ports.EntityAccessChecker.
// Access is granted unless the revision id is listed in Deny for the operation.
type EntityAccess struct {
	Deny map[entities.Operation]map[entities.RevisionID]bool
	Err  error

	// Call tracking
	CallCount int
	mu        sync.Mutex
}

// NewEntityAccess creates an EntityAccess that allows everything.
func NewEntityAccess() *EntityAccess {
	return &EntityAccess{Deny: make(map[entities.Operation]map[entities.RevisionID]bool)}
}

// DenyOn denies op on the given revision.
func (m *EntityAccess) DenyOn(op entities.Operation, id entities.RevisionID) *EntityAccess {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Deny[op] == nil {
		m.Deny[op] = make(map[entities.RevisionID]bool)
	}
	m.Deny[op][id] = true
	return m
}

// Access returns false when the revision is denied for op.
func (m *EntityAccess) Access(_ context.Context, rev *entities.Revision, op entities.Operation, _ entities.Principal) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CallCount++
	if m.Err != nil {
		return false, m.Err
	}
	return !m.Deny[op][rev.ID], nil
}

// AccessCache is an in-memory implementation of ports.AccessCache.
type AccessCache struct {
	Hits        int
	Misses      int
	Invalidated []string
	// InvalidateErr makes Invalidate fail.
	InvalidateErr error

	mu      sync.Mutex
	entries map[ports.AccessKey]bool
}

// NewAccessCache creates an empty AccessCache.
func NewAccessCache() *AccessCache {
	return &AccessCache{entries: make(map[ports.AccessKey]bool)}
}

// Remember returns a cached decision or computes it.
func (m *AccessCache) Remember(ctx context.Context, key ports.AccessKey, compute func(ctx context.Context) (bool, error)) (bool, error) {
	m.mu.Lock()
	if v, ok := m.entries[key]; ok {
		m.Hits++
		m.mu.Unlock()
		return v, nil
	}
	m.Misses++
	m.mu.Unlock()

	v, err := compute(ctx)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	m.entries[key] = v
	m.mu.Unlock()
	return v, nil
}

// Invalidate drops the entity's cached decisions.
func (m *AccessCache) Invalidate(_ context.Context, entityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InvalidateErr != nil {
		return m.InvalidateErr
	}
	m.Invalidated = append(m.Invalidated, entityID)
	for k := range m.entries {
		if k.EntityID == entityID {
			delete(m.entries, k)
		}
	}
	return nil
}
