package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/services"
)

// EntityHandler handles entity operations at the application layer.
type EntityHandler struct {
	entityService *services.EntityService
	moderation    *services.Moderation
}

// NewEntityHandler creates a new EntityHandler.
func NewEntityHandler(entityService *services.EntityService, moderation *services.Moderation) *EntityHandler {
	return &EntityHandler{
		entityService: entityService,
		moderation:    moderation,
	}
}

// CreateRequest describes an entity and its first revision.
type CreateRequest struct {
	Type       string `json:"type" validate:"required,max=64"`
	Language   string `json:"language" validate:"max=12"`
	Title      string `json:"title" validate:"required,max=255"`
	Body       string `json:"body"`
	LogMessage string `json:"log_message" validate:"max=255"`
	Published  bool   `json:"published"`
}

// EntityListResult contains the result of listing entities.
type EntityListResult struct {
	Entities []entities.Entity `json:"entities"`
	Total    int               `json:"total"`
}

// ShowResult is an entity with its default revision.
type ShowResult struct {
	Entity   *entities.Entity    `json:"entity"`
	Current  *entities.Revision  `json:"current"`
	DraftID  entities.RevisionID `json:"draft_id,omitempty"`
	HasDraft bool                `json:"has_draft"`
}

// HandleCreate creates an entity whose first revision becomes the default.
func (h *EntityHandler) HandleCreate(ctx context.Context, req CreateRequest, principal entities.Principal) (*ShowResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !services.CanCreate(principal, req.Type) {
		return nil, fmt.Errorf("creating %s content: %w", req.Type, entities.ErrPermissionDenied)
	}

	entity, err := h.entityService.Create(ctx, entities.NewEntity{
		Type:       req.Type,
		Language:   req.Language,
		AuthorID:   principal.PrincipalID(),
		Content:    entities.Content{Title: req.Title, Body: req.Body},
		LogMessage: req.LogMessage,
		Published:  req.Published,
	})
	if err != nil {
		return nil, err
	}

	current, err := h.entityService.Revision(ctx, entity.ID, entity.DefaultRevisionID)
	if err != nil {
		return nil, fmt.Errorf("loading first revision: %w", err)
	}
	return &ShowResult{Entity: entity, Current: current}, nil
}

// HandleList returns entities with pagination.
func (h *EntityHandler) HandleList(ctx context.Context, limit, offset int) (*EntityListResult, error) {
	list, err := h.entityService.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &EntityListResult{
		Entities: list,
		Total:    len(list),
	}, nil
}

// HandleShow returns the entity's default revision if principal may view it.
func (h *EntityHandler) HandleShow(ctx context.Context, entityID string, principal entities.Principal) (*ShowResult, error) {
	entity, err := h.entityService.Get(ctx, entityID)
	if err != nil {
		return nil, err
	}
	current, err := h.entityService.Revision(ctx, entity.ID, entity.DefaultRevisionID)
	if err != nil {
		return nil, fmt.Errorf("loading default revision: %w", err)
	}

	allowed, err := h.moderation.CheckAccess(ctx, current, principal, entities.OperationView)
	if err != nil {
		return nil, fmt.Errorf("checking view access: %w", err)
	}
	if !allowed {
		return nil, fmt.Errorf("viewing entity %s: %w", entity.ID, entities.ErrPermissionDenied)
	}

	draftID, err := h.moderation.DraftRevisionID(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("resolving draft: %w", err)
	}
	return &ShowResult{
		Entity:   entity,
		Current:  current,
		DraftID:  draftID,
		HasDraft: draftID != entities.NoRevision,
	}, nil
}

// HandleHistory returns the entity's audit log, oldest first.
func (h *EntityHandler) HandleHistory(ctx context.Context, entityID string) ([]entities.AuditEntry, error) {
	return h.entityService.History(ctx, entityID)
}
