package services

import "github.com/ersonp/revmod/internal/domain/entities"

// Options configures moderation policy.
type Options struct {
	// EntityKind is used in the "administer <kind>" permission.
	EntityKind string
	// DraftSupport relaxes default-revision protection to sole revisions only.
	// Without it every default revision is protected from revert and delete.
	DraftSupport bool
	// DraftOperation is the operation checked against the draft revision
	// when viewing an entity's draft.
	DraftOperation entities.Operation
	// UnpublishedTypes lists entity types that are unpublished by default.
	// Non-administrators may only save drafts of published entities of these types.
	UnpublishedTypes []string
}

// DefaultOptions returns the moderation defaults.
func DefaultOptions() Options {
	return Options{
		EntityKind:     DefaultEntityKind,
		DraftSupport:   true,
		DraftOperation: entities.OperationView,
	}
}

func (o Options) withDefaults() Options {
	if o.EntityKind == "" {
		o.EntityKind = DefaultEntityKind
	}
	if o.DraftOperation == "" {
		o.DraftOperation = entities.OperationView
	}
	return o
}

func (o Options) unpublishedByDefault(entityType string) bool {
	for _, t := range o.UnpublishedTypes {
		if t == entityType {
			return true
		}
	}
	return false
}
