package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/ports"
)

// Moderation is the facade over draft resolution, revision access and
// transitions. It is the only entry point handlers use.
type Moderation struct {
	store       ports.RevisionStore
	drafts      *DraftResolver
	access      *AccessEvaluator
	generic     ports.EntityAccessChecker
	transitions *TransitionEngine
	opts        Options
	logger      *zap.Logger
}

// NewModeration creates a new Moderation. A nil generic checker falls back to
// ContentAccessPolicy; a nil cache disables caching.
func NewModeration(
	store ports.RevisionStore,
	generic ports.EntityAccessChecker,
	cache ports.AccessCache,
	opts Options,
	logger *zap.Logger,
) *Moderation {
	if generic == nil {
		generic = NewContentAccessPolicy(store)
	}
	if cache == nil {
		cache = ports.NoopAccessCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.withDefaults()
	return &Moderation{
		store:       store,
		drafts:      NewDraftResolver(store),
		access:      NewAccessEvaluator(store, generic, cache, opts, logger),
		generic:     generic,
		transitions: NewTransitionEngine(store, cache, logger),
		opts:        opts,
		logger:      logger,
	}
}

// Options returns the moderation options in effect.
func (m *Moderation) Options() Options {
	return m.opts
}

// HasDraft reports whether the entity has an active draft.
func (m *Moderation) HasDraft(ctx context.Context, entity *entities.Entity) (bool, error) {
	return m.drafts.HasDraft(ctx, entity)
}

// DraftRevisionID returns the entity's active draft id, or NoRevision.
func (m *Moderation) DraftRevisionID(ctx context.Context, entity *entities.Entity) (entities.RevisionID, error) {
	return m.drafts.DraftRevisionID(ctx, entity)
}

// CheckAccess reports whether principal may perform op on rev.
func (m *Moderation) CheckAccess(ctx context.Context, rev *entities.Revision, principal entities.Principal, op entities.Operation) (bool, error) {
	return m.access.CheckAccess(ctx, rev, principal, op)
}

// CanAccessDraft reports whether the entity has a draft and principal may
// perform the configured draft operation on it.
func (m *Moderation) CanAccessDraft(ctx context.Context, entity *entities.Entity, principal entities.Principal) (bool, error) {
	draftID, err := m.drafts.DraftRevisionID(ctx, entity)
	if err != nil {
		return false, err
	}
	if draftID == entities.NoRevision {
		return false, nil
	}
	draft, err := m.store.LoadRevision(ctx, entity.ID, draftID)
	if err != nil {
		return false, fmt.Errorf("loading draft revision: %w", err)
	}
	return m.access.CheckAccess(ctx, draft, principal, m.opts.DraftOperation)
}

// CanEdit reports whether principal may submit the edit form. The generic
// update check runs against the revision the form is based on: the draft when
// one exists, else the default.
func (m *Moderation) CanEdit(ctx context.Context, entity *entities.Entity, principal entities.Principal) (bool, error) {
	if principal == nil {
		return false, nil
	}
	base, err := m.drafts.DraftRevisionID(ctx, entity)
	if err != nil {
		return false, err
	}
	if base == entities.NoRevision {
		base = entity.DefaultRevisionID
	}
	rev, err := m.store.LoadRevision(ctx, entity.ID, base)
	if err != nil {
		return false, fmt.Errorf("loading revision %d: %w", base, err)
	}
	return m.generic.Access(ctx, rev, entities.OperationUpdate, principal)
}

// ResolveSubmission applies an edit-form submission.
func (m *Moderation) ResolveSubmission(ctx context.Context, entity *entities.Entity, sub Submission) (entities.RevisionID, error) {
	return m.transitions.Submit(ctx, entity.ID, sub)
}

// ApplyRevert copies source into a new unpublished draft revision.
func (m *Moderation) ApplyRevert(ctx context.Context, entity *entities.Entity, source entities.RevisionID, opts RevertOptions) (entities.RevisionID, error) {
	return m.transitions.Revert(ctx, entity.ID, source, opts)
}

// ApplyDelete deletes target, promoting a replacement if it was the default.
func (m *Moderation) ApplyDelete(ctx context.Context, entity *entities.Entity, target entities.RevisionID) (DeleteResult, error) {
	return m.transitions.Delete(ctx, entity.ID, target)
}

// AvailableActions returns the submit actions the edit form offers principal.
func (m *Moderation) AvailableActions(ctx context.Context, entity *entities.Entity, principal entities.Principal) ([]entities.SubmitAction, error) {
	hasDraft, err := m.drafts.HasDraft(ctx, entity)
	if err != nil {
		return nil, err
	}
	if hasDraft {
		return []entities.SubmitAction{entities.ActionSaveDefault, entities.ActionSaveAndPublish}, nil
	}

	current, err := m.store.LoadRevision(ctx, entity.ID, entity.DefaultRevisionID)
	if err != nil {
		return nil, fmt.Errorf("loading default revision: %w", err)
	}
	if !current.Published {
		return []entities.SubmitAction{entities.ActionSaveDefault, entities.ActionSaveAndPublish}, nil
	}

	if m.opts.unpublishedByDefault(entity.Type) && !principal.HasPermission(AdministerPermission(m.opts.EntityKind)) {
		return []entities.SubmitAction{entities.ActionSaveAsDraft}, nil
	}
	return []entities.SubmitAction{
		entities.ActionSaveAsDraft,
		entities.ActionSaveDefault,
		entities.ActionSaveAndUnpublish,
	}, nil
}

// OverviewRow is one line of the revision overview.
type OverviewRow struct {
	Revision  entities.Revision      `json:"revision"`
	State     entities.RevisionState `json:"state"`
	CanRevert bool                   `json:"can_revert"`
	CanDelete bool                   `json:"can_delete"`
}

// Overview lists the entity's revisions in its language, newest first, with
// their state and the operations principal may perform on each.
func (m *Moderation) Overview(ctx context.Context, entity *entities.Entity, principal entities.Principal) ([]OverviewRow, error) {
	revisions, err := m.store.ListRevisions(ctx, entity.ID)
	if err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	ids := make([]entities.RevisionID, len(revisions))
	for i := range revisions {
		ids[i] = revisions[i].ID
	}
	draftID := ResolveDraft(entity.DefaultRevisionID, ids)

	rows := make([]OverviewRow, 0, len(revisions))
	for i := len(revisions) - 1; i >= 0; i-- {
		rev := revisions[i]
		if entity.Language != "" && rev.Language != entity.Language {
			continue
		}

		row := OverviewRow{Revision: rev, State: revisionState(rev.ID, entity.DefaultRevisionID, draftID)}
		if row.CanRevert, err = m.access.CheckAccess(ctx, &rev, principal, entities.OperationUpdate); err != nil {
			return nil, fmt.Errorf("checking revert access on revision %d: %w", rev.ID, err)
		}
		if row.CanDelete, err = m.access.CheckAccess(ctx, &rev, principal, entities.OperationDelete); err != nil {
			return nil, fmt.Errorf("checking delete access on revision %d: %w", rev.ID, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func revisionState(id, current, draft entities.RevisionID) entities.RevisionState {
	switch {
	case id == current:
		return entities.StateCurrent
	case id == draft:
		return entities.StateDraft
	case id > current:
		return entities.StateSupersededDraft
	default:
		return entities.StateArchived
	}
}
