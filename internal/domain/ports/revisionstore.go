// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/revmod/internal/domain/entities"
)

// RevisionReader is the read side of the revision store.
type RevisionReader interface {
	// LoadEntity loads an entity. Returns entities.ErrNotFound if it does not exist.
	LoadEntity(ctx context.Context, entityID string) (*entities.Entity, error)

	// ListRevisionIDs lists the revision ids of an entity in ascending order.
	ListRevisionIDs(ctx context.Context, entityID string) ([]entities.RevisionID, error)

	// ListRevisions lists the revisions of an entity in ascending id order.
	ListRevisions(ctx context.Context, entityID string) ([]entities.Revision, error)

	// LoadRevision loads one revision of an entity. Returns entities.ErrNotFound
	// if the revision does not exist or belongs to another entity.
	LoadRevision(ctx context.Context, entityID string, id entities.RevisionID) (*entities.Revision, error)

	// RevisionEntityID returns the id of the entity owning a revision.
	// Returns entities.ErrNotFound if the revision does not exist.
	RevisionEntityID(ctx context.Context, id entities.RevisionID) (string, error)

	// CountRevisionsInLanguage counts an entity's revisions in a language.
	CountRevisionsInLanguage(ctx context.Context, entityID, language string) (int, error)
}

// RevisionWriter is the write side of the revision store.
type RevisionWriter interface {
	// CreateRevision stores a new revision and returns the id it was assigned.
	CreateRevision(ctx context.Context, entityID string, rev entities.NewRevision) (entities.RevisionID, error)

	// SetRevisionFlags updates IsDefault and/or Published in place. Setting
	// IsDefault also keeps the entity's DefaultRevisionID in step.
	SetRevisionFlags(ctx context.Context, id entities.RevisionID, flags entities.RevisionFlags) error

	// DeleteRevision permanently removes a revision.
	DeleteRevision(ctx context.Context, id entities.RevisionID) error

	// LogAction appends an entry to the audit log.
	LogAction(ctx context.Context, entry entities.AuditEntry) error
}

// RevisionStore is the store consumed by the moderation core.
type RevisionStore interface {
	RevisionReader
	RevisionWriter

	// CreateEntity stores a new entity together with its first revision, which
	// becomes the default. Both ids are assigned by the store. A non-nil audit
	// entry is written in the same transaction with both ids filled in.
	CreateEntity(ctx context.Context, entity *entities.Entity, first entities.NewRevision, audit *entities.AuditEntry) (entities.RevisionID, error)

	// ListEntities lists entities ordered by creation time.
	ListEntities(ctx context.Context, limit, offset int) ([]entities.Entity, error)

	// FindAuditLog finds audit log entries for an entity, oldest first.
	FindAuditLog(ctx context.Context, entityID string) ([]entities.AuditEntry, error)

	// WithinEntity runs fn with all default-flag mutations for the entity
	// serialized. Writes made through tx are committed only if fn returns nil.
	WithinEntity(ctx context.Context, entityID string, fn func(ctx context.Context, tx RevisionTx) error) error

	// Close releases the store's resources.
	Close() error
}

// RevisionTx is the store view handed to a WithinEntity callback.
type RevisionTx interface {
	RevisionReader
	RevisionWriter
}
