package services

import (
	"context"
	"fmt"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/ports"
)

// ResolveDraft returns the active draft: the greatest id strictly greater than
// current, or NoRevision. ids is not modified and need not be sorted.
func ResolveDraft(current entities.RevisionID, ids []entities.RevisionID) entities.RevisionID {
	draft := entities.NoRevision
	for _, id := range ids {
		if id > current && id > draft {
			draft = id
		}
	}
	return draft
}

// DraftResolver finds an entity's active draft revision.
type DraftResolver struct {
	store ports.RevisionReader
}

// NewDraftResolver creates a new DraftResolver.
func NewDraftResolver(store ports.RevisionReader) *DraftResolver {
	return &DraftResolver{store: store}
}

// DraftRevisionID returns the entity's active draft id, or NoRevision.
func (r *DraftResolver) DraftRevisionID(ctx context.Context, entity *entities.Entity) (entities.RevisionID, error) {
	ids, err := r.store.ListRevisionIDs(ctx, entity.ID)
	if err != nil {
		return entities.NoRevision, fmt.Errorf("listing revision ids: %w", err)
	}
	return ResolveDraft(entity.DefaultRevisionID, ids), nil
}

// HasDraft reports whether the entity has an active draft.
func (r *DraftResolver) HasDraft(ctx context.Context, entity *entities.Entity) (bool, error) {
	id, err := r.DraftRevisionID(ctx, entity)
	if err != nil {
		return false, err
	}
	return id != entities.NoRevision, nil
}
