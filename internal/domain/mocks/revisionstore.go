// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/ports"
)

// RevisionStore is an in-memory implementation of ports.RevisionStore.
// WithinEntity holds a per-entity lock and restores the entity's previous
// state when the callback fails.
type RevisionStore struct {
	// Err is returned by every method when set.
	Err error
	// FailOn makes the named method fail with the given error.
	FailOn map[string]error

	// Call tracking
	Mutations int // CreateRevision, SetRevisionFlags, DeleteRevision calls that succeeded
	Calls     []string

	mu        sync.Mutex
	entities  map[string]*entities.Entity
	revisions map[entities.RevisionID]*entities.Revision
	audit     []entities.AuditEntry
	nextID    entities.RevisionID
	locks     map[string]*sync.Mutex
}

var _ ports.RevisionStore = (*RevisionStore)(nil)

// NewRevisionStore creates an empty store. Revision ids start at 1.
func NewRevisionStore() *RevisionStore {
	return &RevisionStore{
		FailOn:    make(map[string]error),
		entities:  make(map[string]*entities.Entity),
		revisions: make(map[entities.RevisionID]*entities.Revision),
		nextID:    1,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Seed inserts an entity with the given revisions as-is, without validating
// the default-flag invariant. The entity's DefaultRevisionID is taken from
// the last revision marked default.
func (m *RevisionStore) Seed(entity entities.Entity, revs ...entities.Revision) *entities.Entity {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entity.Language == "" {
		entity.Language = entities.DefaultLanguage
	}
	entity.DefaultRevisionID = entities.NoRevision
	for i := range revs {
		rev := revs[i]
		rev.EntityID = entity.ID
		if rev.Language == "" {
			rev.Language = entity.Language
		}
		if rev.IsDefault {
			entity.DefaultRevisionID = rev.ID
		}
		m.revisions[rev.ID] = &rev
		if rev.ID >= m.nextID {
			m.nextID = rev.ID + 1
		}
	}
	e := entity
	m.entities[entity.ID] = &e
	out := e
	return &out
}

// Revision returns a copy of a stored revision regardless of entity, for assertions.
func (m *RevisionStore) Revision(id entities.RevisionID) (entities.Revision, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rev, ok := m.revisions[id]
	if !ok {
		return entities.Revision{}, false
	}
	return *rev, true
}

// DefaultRevisions returns the ids of an entity's revisions flagged default.
func (m *RevisionStore) DefaultRevisions(entityID string) []entities.RevisionID {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []entities.RevisionID
	for _, rev := range m.revisions {
		if rev.EntityID == entityID && rev.IsDefault {
			ids = append(ids, rev.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (m *RevisionStore) check(method string) error {
	m.Calls = append(m.Calls, method)
	if m.Err != nil {
		return m.Err
	}
	if err, ok := m.FailOn[method]; ok {
		return err
	}
	return nil
}

// LoadEntity loads an entity.
func (m *RevisionStore) LoadEntity(_ context.Context, entityID string) (*entities.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("LoadEntity"); err != nil {
		return nil, err
	}
	e, ok := m.entities[entityID]
	if !ok {
		return nil, fmt.Errorf("entity %s: %w", entityID, entities.ErrNotFound)
	}
	out := *e
	return &out, nil
}

// ListRevisionIDs lists an entity's revision ids in ascending order.
func (m *RevisionStore) ListRevisionIDs(_ context.Context, entityID string) ([]entities.RevisionID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("ListRevisionIDs"); err != nil {
		return nil, err
	}
	revs := m.revisionsOf(entityID)
	ids := make([]entities.RevisionID, len(revs))
	for i := range revs {
		ids[i] = revs[i].ID
	}
	return ids, nil
}

// ListRevisions lists an entity's revisions in ascending id order.
func (m *RevisionStore) ListRevisions(_ context.Context, entityID string) ([]entities.Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("ListRevisions"); err != nil {
		return nil, err
	}
	return m.revisionsOf(entityID), nil
}

// LoadRevision loads one revision of an entity.
func (m *RevisionStore) LoadRevision(_ context.Context, entityID string, id entities.RevisionID) (*entities.Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("LoadRevision"); err != nil {
		return nil, err
	}
	rev, ok := m.revisions[id]
	if !ok || rev.EntityID != entityID {
		return nil, fmt.Errorf("revision %d of entity %s: %w", id, entityID, entities.ErrNotFound)
	}
	out := *rev
	return &out, nil
}

// RevisionEntityID returns the owner of a revision.
func (m *RevisionStore) RevisionEntityID(_ context.Context, id entities.RevisionID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("RevisionEntityID"); err != nil {
		return "", err
	}
	rev, ok := m.revisions[id]
	if !ok {
		return "", fmt.Errorf("revision %d: %w", id, entities.ErrNotFound)
	}
	return rev.EntityID, nil
}

// CountRevisionsInLanguage counts an entity's revisions in a language.
func (m *RevisionStore) CountRevisionsInLanguage(_ context.Context, entityID, language string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("CountRevisionsInLanguage"); err != nil {
		return 0, err
	}
	count := 0
	for _, rev := range m.revisions {
		if rev.EntityID == entityID && rev.Language == language {
			count++
		}
	}
	return count, nil
}

// CreateRevision stores a new revision.
func (m *RevisionStore) CreateRevision(_ context.Context, entityID string, rev entities.NewRevision) (entities.RevisionID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("CreateRevision"); err != nil {
		return entities.NoRevision, err
	}
	e, ok := m.entities[entityID]
	if !ok {
		return entities.NoRevision, fmt.Errorf("entity %s: %w", entityID, entities.ErrNotFound)
	}
	id := m.insertRevision(e, rev)
	m.Mutations++
	return id, nil
}

// SetRevisionFlags updates the mutable flags of a revision.
func (m *RevisionStore) SetRevisionFlags(_ context.Context, id entities.RevisionID, flags entities.RevisionFlags) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("SetRevisionFlags"); err != nil {
		return err
	}
	rev, ok := m.revisions[id]
	if !ok {
		return fmt.Errorf("revision %d: %w", id, entities.ErrNotFound)
	}
	if flags.Published != nil {
		rev.Published = *flags.Published
	}
	if flags.IsDefault != nil {
		rev.IsDefault = *flags.IsDefault
		e := m.entities[rev.EntityID]
		switch {
		case rev.IsDefault:
			e.DefaultRevisionID = id
		case e.DefaultRevisionID == id:
			e.DefaultRevisionID = entities.NoRevision
		}
	}
	m.Mutations++
	return nil
}

// DeleteRevision permanently removes a revision.
func (m *RevisionStore) DeleteRevision(_ context.Context, id entities.RevisionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("DeleteRevision"); err != nil {
		return err
	}
	if _, ok := m.revisions[id]; !ok {
		return fmt.Errorf("revision %d: %w", id, entities.ErrNotFound)
	}
	delete(m.revisions, id)
	m.Mutations++
	return nil
}

// LogAction appends an audit entry.
func (m *RevisionStore) LogAction(_ context.Context, entry entities.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("LogAction"); err != nil {
		return err
	}
	entry.ID = int64(len(m.audit) + 1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.audit = append(m.audit, entry)
	return nil
}

// CreateEntity stores an entity with its first revision as default. A
// LogAction failure leaves the store untouched.
func (m *RevisionStore) CreateEntity(_ context.Context, entity *entities.Entity, first entities.NewRevision, audit *entities.AuditEntry) (entities.RevisionID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("CreateEntity"); err != nil {
		return entities.NoRevision, err
	}
	if audit != nil {
		if err := m.check("LogAction"); err != nil {
			return entities.NoRevision, err
		}
	}
	if entity.ID == "" {
		entity.ID = uuid.New().String()
	}
	if _, exists := m.entities[entity.ID]; exists {
		return entities.NoRevision, fmt.Errorf("entity %s already exists", entity.ID)
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = time.Now()
	}
	e := *entity
	m.entities[e.ID] = &e
	first.IsDefault = true
	id := m.insertRevision(&e, first)
	entity.DefaultRevisionID = id

	if audit != nil {
		entry := *audit
		entry.ID = int64(len(m.audit) + 1)
		entry.EntityID = e.ID
		entry.RevisionID = id
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}
		m.audit = append(m.audit, entry)
	}
	return id, nil
}

// ListEntities lists entities ordered by creation time.
func (m *RevisionStore) ListEntities(_ context.Context, limit, offset int) ([]entities.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("ListEntities"); err != nil {
		return nil, err
	}
	result := make([]entities.Entity, 0, len(m.entities))
	for _, e := range m.entities {
		result = append(result, *e)
	}
	// Sort for deterministic test results
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if offset >= len(result) {
		return []entities.Entity{}, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

// FindAuditLog finds audit entries for an entity.
func (m *RevisionStore) FindAuditLog(_ context.Context, entityID string) ([]entities.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check("FindAuditLog"); err != nil {
		return nil, err
	}
	var result []entities.AuditEntry
	for _, entry := range m.audit {
		if entry.EntityID == entityID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// WithinEntity serializes fn per entity and rolls back its writes on error.
func (m *RevisionStore) WithinEntity(ctx context.Context, entityID string, fn func(ctx context.Context, tx ports.RevisionTx) error) error {
	lock := m.entityLock(entityID)
	lock.Lock()
	defer lock.Unlock()

	snap := m.snapshot(entityID)
	if err := fn(ctx, m); err != nil {
		m.restore(entityID, snap)
		return err
	}
	return nil
}

// Close does nothing.
func (m *RevisionStore) Close() error {
	return nil
}

type storeSnapshot struct {
	entity    *entities.Entity
	revisions []entities.Revision
	auditLen  int
	mutations int
}

func (m *RevisionStore) entityLock(entityID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.locks[entityID]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[entityID] = lock
	}
	return lock
}

func (m *RevisionStore) snapshot(entityID string) storeSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := storeSnapshot{
		revisions: m.revisionsOf(entityID),
		auditLen:  len(m.audit),
		mutations: m.Mutations,
	}
	if e, ok := m.entities[entityID]; ok {
		copied := *e
		snap.entity = &copied
	}
	return snap
}

func (m *RevisionStore) restore(entityID string, snap storeSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rev := range m.revisions {
		if rev.EntityID == entityID {
			delete(m.revisions, id)
		}
	}
	for i := range snap.revisions {
		rev := snap.revisions[i]
		m.revisions[rev.ID] = &rev
	}
	if snap.entity != nil {
		m.entities[entityID] = snap.entity
	}
	m.audit = m.audit[:snap.auditLen]
	m.Mutations = snap.mutations
}

// revisionsOf returns copies of an entity's revisions in ascending id order.
// Caller must hold mu.
func (m *RevisionStore) revisionsOf(entityID string) []entities.Revision {
	result := make([]entities.Revision, 0, 8)
	for _, rev := range m.revisions {
		if rev.EntityID == entityID {
			result = append(result, *rev)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// insertRevision assigns the next id. Caller must hold mu.
func (m *RevisionStore) insertRevision(e *entities.Entity, rev entities.NewRevision) entities.RevisionID {
	id := m.nextID
	m.nextID++
	if rev.Language == "" {
		rev.Language = e.Language
	}
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now()
	}
	m.revisions[id] = &entities.Revision{
		ID:         id,
		EntityID:   e.ID,
		AuthorID:   rev.AuthorID,
		Language:   rev.Language,
		Content:    rev.Content,
		LogMessage: rev.LogMessage,
		Published:  rev.Published,
		IsDefault:  rev.IsDefault,
		CreatedAt:  rev.CreatedAt,
	}
	if rev.IsDefault {
		e.DefaultRevisionID = id
	}
	return id
}
