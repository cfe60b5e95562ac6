package handlers

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/services"
)

// ModerationHandler runs moderated edits, reverts and deletions. Every
// operation checks access before touching the store.
type ModerationHandler struct {
	moderation    *services.Moderation
	entityService *services.EntityService
}

// NewModerationHandler creates a new ModerationHandler.
func NewModerationHandler(moderation *services.Moderation, entityService *services.EntityService) *ModerationHandler {
	return &ModerationHandler{
		moderation:    moderation,
		entityService: entityService,
	}
}

// SubmitRequest is an edit-form submission. A nil Content with the publish
// action promotes the existing draft unchanged; otherwise nil Content copies
// the revision being edited.
type SubmitRequest struct {
	EntityID   string            `json:"entity_id" validate:"required"`
	Action     string            `json:"action" validate:"required"`
	Content    *entities.Content `json:"content"`
	LogMessage string            `json:"log_message" validate:"max=255"`
}

// SubmitResult describes the revision holding a submission.
type SubmitResult struct {
	EntityID   string                `json:"entity_id"`
	RevisionID entities.RevisionID   `json:"revision_id"`
	Action     entities.SubmitAction `json:"action"`
	Revision   *entities.Revision    `json:"revision"`
}

// RevisionRequest addresses one revision of an entity.
type RevisionRequest struct {
	EntityID   string              `json:"entity_id" validate:"required"`
	RevisionID entities.RevisionID `json:"revision_id" validate:"gt=0"`
}

// RevertRequest asks for a copy of an older revision as a new draft.
type RevertRequest struct {
	RevisionRequest
	LogMessage string `json:"log_message" validate:"max=255"`
}

// RevertResult describes the revision created by a revert.
type RevertResult struct {
	EntityID   string              `json:"entity_id"`
	SourceID   entities.RevisionID `json:"source_id"`
	RevisionID entities.RevisionID `json:"revision_id"`
}

// AccessRequest asks whether an operation is allowed on a revision.
type AccessRequest struct {
	RevisionRequest
	Operation string `json:"operation" validate:"required,oneof=view update revert delete"`
}

// AccessResult is the outcome of an access check.
type AccessResult struct {
	EntityID   string              `json:"entity_id"`
	RevisionID entities.RevisionID `json:"revision_id"`
	Operation  entities.Operation  `json:"operation"`
	Allowed    bool                `json:"allowed"`
}

// DraftResult is an entity together with its active draft.
type DraftResult struct {
	Entity *entities.Entity   `json:"entity"`
	Draft  *entities.Revision `json:"draft"`
}

// ActionsResult lists the submit actions offered to a principal.
type ActionsResult struct {
	EntityID string                  `json:"entity_id"`
	HasDraft bool                    `json:"has_draft"`
	Actions  []entities.SubmitAction `json:"actions"`
}

// RevisionsResult is the revision overview of an entity.
type RevisionsResult struct {
	Entity *entities.Entity       `json:"entity"`
	Rows   []services.OverviewRow `json:"revisions"`
}

// HandleSubmit applies an edit-form submission. The action must be one the
// form offers the principal, except that unpublish is also accepted while a
// draft exists and then saves another unpublished draft.
func (h *ModerationHandler) HandleSubmit(ctx context.Context, req SubmitRequest, principal entities.Principal) (*SubmitResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	action, err := entities.ParseSubmitAction(req.Action)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if req.Content != nil && strings.TrimSpace(req.Content.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidRequest)
	}

	entity, err := h.entityService.Get(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}

	allowed, err := h.moderation.CanEdit(ctx, entity, principal)
	if err != nil {
		return nil, fmt.Errorf("checking edit access: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("editing entity %s: %w", entity.ID, entities.ErrPermissionDenied)
	}

	actions, err := h.moderation.AvailableActions(ctx, entity, principal)
	if err != nil {
		return nil, fmt.Errorf("listing available actions: %w", err)
	}
	if !slices.Contains(actions, action) {
		accepted, err := h.unpublishesDraft(ctx, entity, action)
		if err != nil {
			return nil, err
		}
		if !accepted {
			return nil, fmt.Errorf("action %s is not available for entity %s: %w", action, entity.ID, entities.ErrInvalidTransition)
		}
	}

	id, err := h.moderation.ResolveSubmission(ctx, entity, services.Submission{
		Action:     action,
		Content:    req.Content,
		AuthorID:   principal.PrincipalID(),
		LogMessage: req.LogMessage,
	})
	if err != nil {
		return nil, err
	}

	rev, err := h.entityService.Revision(ctx, entity.ID, id)
	if err != nil {
		return nil, fmt.Errorf("loading submitted revision: %w", err)
	}
	return &SubmitResult{
		EntityID:   entity.ID,
		RevisionID: id,
		Action:     action,
		Revision:   rev,
	}, nil
}

// HandleRevert copies an older revision into a new unpublished draft.
func (h *ModerationHandler) HandleRevert(ctx context.Context, req RevertRequest, principal entities.Principal) (*RevertResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	entity, rev, err := h.authorize(ctx, req.RevisionRequest, principal, entities.OperationUpdate)
	if err != nil {
		return nil, err
	}

	id, err := h.moderation.ApplyRevert(ctx, entity, rev.ID, services.RevertOptions{
		AuthorID:   principal.PrincipalID(),
		LogMessage: req.LogMessage,
	})
	if err != nil {
		return nil, err
	}
	return &RevertResult{
		EntityID:   entity.ID,
		SourceID:   rev.ID,
		RevisionID: id,
	}, nil
}

// HandleDelete deletes a revision, promoting a replacement when it was the
// default.
func (h *ModerationHandler) HandleDelete(ctx context.Context, req RevisionRequest, principal entities.Principal) (*services.DeleteResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	entity, rev, err := h.authorize(ctx, req, principal, entities.OperationDelete)
	if err != nil {
		return nil, err
	}

	result, err := h.moderation.ApplyDelete(ctx, entity, rev.ID)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// HandleAccess reports whether principal may perform an operation on a
// revision. A denial is a result, not an error.
func (h *ModerationHandler) HandleAccess(ctx context.Context, req AccessRequest, principal entities.Principal) (*AccessResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	op, err := entities.ParseOperation(req.Operation)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	rev, err := h.entityService.Revision(ctx, req.EntityID, req.RevisionID)
	if err != nil {
		return nil, err
	}
	allowed, err := h.moderation.CheckAccess(ctx, rev, principal, op)
	if err != nil {
		return nil, fmt.Errorf("checking access: %w", err)
	}
	return &AccessResult{
		EntityID:   req.EntityID,
		RevisionID: rev.ID,
		Operation:  op,
		Allowed:    allowed,
	}, nil
}

// HandleDraft returns the entity's active draft.
func (h *ModerationHandler) HandleDraft(ctx context.Context, entityID string, principal entities.Principal) (*DraftResult, error) {
	entity, err := h.entityService.Get(ctx, entityID)
	if err != nil {
		return nil, err
	}

	draftID, err := h.moderation.DraftRevisionID(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("resolving draft: %w", err)
	}
	if draftID == entities.NoRevision {
		return nil, fmt.Errorf("draft of entity %s: %w", entity.ID, entities.ErrNotFound)
	}

	allowed, err := h.moderation.CanAccessDraft(ctx, entity, principal)
	if err != nil {
		return nil, fmt.Errorf("checking draft access: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("viewing draft of entity %s: %w", entity.ID, entities.ErrPermissionDenied)
	}

	draft, err := h.entityService.Revision(ctx, entity.ID, draftID)
	if err != nil {
		return nil, fmt.Errorf("loading draft: %w", err)
	}
	return &DraftResult{Entity: entity, Draft: draft}, nil
}

// HandleActions lists the submit actions the edit form offers principal.
func (h *ModerationHandler) HandleActions(ctx context.Context, entityID string, principal entities.Principal) (*ActionsResult, error) {
	entity, err := h.entityService.Get(ctx, entityID)
	if err != nil {
		return nil, err
	}
	hasDraft, err := h.moderation.HasDraft(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("resolving draft: %w", err)
	}
	actions, err := h.moderation.AvailableActions(ctx, entity, principal)
	if err != nil {
		return nil, fmt.Errorf("listing available actions: %w", err)
	}
	return &ActionsResult{
		EntityID: entity.ID,
		HasDraft: hasDraft,
		Actions:  actions,
	}, nil
}

// HandleRevisions returns the revision overview of an entity.
func (h *ModerationHandler) HandleRevisions(ctx context.Context, entityID string, principal entities.Principal) (*RevisionsResult, error) {
	entity, err := h.entityService.Get(ctx, entityID)
	if err != nil {
		return nil, err
	}
	rows, err := h.moderation.Overview(ctx, entity, principal)
	if err != nil {
		return nil, err
	}
	return &RevisionsResult{Entity: entity, Rows: rows}, nil
}

// unpublishesDraft reports whether action is an unpublish submitted while the
// entity has a draft.
func (h *ModerationHandler) unpublishesDraft(ctx context.Context, entity *entities.Entity, action entities.SubmitAction) (bool, error) {
	if action != entities.ActionSaveAndUnpublish {
		return false, nil
	}
	hasDraft, err := h.moderation.HasDraft(ctx, entity)
	if err != nil {
		return false, fmt.Errorf("resolving draft: %w", err)
	}
	return hasDraft, nil
}

// authorize loads the addressed revision and fails with ErrPermissionDenied
// unless principal may perform op on it. A revision of another entity is an
// invalid transition.
func (h *ModerationHandler) authorize(
	ctx context.Context,
	req RevisionRequest,
	principal entities.Principal,
	op entities.Operation,
) (*entities.Entity, *entities.Revision, error) {
	entity, err := h.entityService.Get(ctx, req.EntityID)
	if err != nil {
		return nil, nil, err
	}
	rev, err := h.entityService.OwnedRevision(ctx, entity.ID, req.RevisionID)
	if err != nil {
		return nil, nil, err
	}

	allowed, err := h.moderation.CheckAccess(ctx, rev, principal, op)
	if err != nil {
		return nil, nil, fmt.Errorf("checking %s access: %w", op, err)
	}
	if !allowed {
		return nil, nil, fmt.Errorf("%s revision %d: %w", op, rev.ID, entities.ErrPermissionDenied)
	}
	return entity, rev, nil
}
