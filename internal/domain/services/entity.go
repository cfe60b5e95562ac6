package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/ports"
)

// validTypeNameRegex allows lowercase alphanumeric and underscores only.
var validTypeNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// EntityService manages entities outside of moderation transitions.
type EntityService struct {
	store  ports.RevisionStore
	logger *zap.Logger
}

// NewEntityService creates a new EntityService.
func NewEntityService(store ports.RevisionStore, logger *zap.Logger) *EntityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityService{
		store:  store,
		logger: logger,
	}
}

// Create stores a new entity with its first revision as the default.
func (s *EntityService) Create(ctx context.Context, req entities.NewEntity) (*entities.Entity, error) {
	entityType := strings.ToLower(strings.TrimSpace(req.Type))
	if !validTypeNameRegex.MatchString(entityType) {
		return nil, fmt.Errorf("%w: type must be lowercase alphanumeric with underscores, starting with a letter", entities.ErrInvalidEntity)
	}
	if strings.TrimSpace(req.Content.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", entities.ErrInvalidEntity)
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = entities.DefaultLanguage
	}

	now := timeNow()
	entity := &entities.Entity{
		Type:      entityType,
		Language:  language,
		CreatedAt: now,
	}
	audit := auditEntry(entities.ActionEntityCreate, "", entities.NoRevision, map[string]any{
		"type":      entityType,
		"published": req.Published,
	})
	id, err := s.store.CreateEntity(ctx, entity, entities.NewRevision{
		AuthorID:   req.AuthorID,
		Language:   language,
		Content:    req.Content,
		LogMessage: req.LogMessage,
		Published:  req.Published,
		IsDefault:  true,
		CreatedAt:  now,
	}, &audit)
	if err != nil {
		return nil, fmt.Errorf("creating entity: %w", err)
	}

	s.logger.Info("entity created",
		zap.String("entity_id", entity.ID),
		zap.String("type", entityType),
		zap.Int64("revision_id", int64(id)),
	)
	return entity, nil
}

// Get loads an entity by id.
func (s *EntityService) Get(ctx context.Context, entityID string) (*entities.Entity, error) {
	return s.store.LoadEntity(ctx, entityID)
}

// List returns entities with pagination.
func (s *EntityService) List(ctx context.Context, limit, offset int) ([]entities.Entity, error) {
	return s.store.ListEntities(ctx, limit, offset)
}

// Revision loads one revision of an entity.
func (s *EntityService) Revision(ctx context.Context, entityID string, id entities.RevisionID) (*entities.Revision, error) {
	return s.store.LoadRevision(ctx, entityID, id)
}

// OwnedRevision loads a revision that a transition on entityID will target.
// A revision owned by another entity fails with ErrInvalidTransition, a
// missing one with ErrNotFound.
func (s *EntityService) OwnedRevision(ctx context.Context, entityID string, id entities.RevisionID) (*entities.Revision, error) {
	rev, err := s.store.LoadRevision(ctx, entityID, id)
	if err == nil || !errors.Is(err, entities.ErrNotFound) {
		return rev, err
	}

	owner, ownerErr := s.store.RevisionEntityID(ctx, id)
	if ownerErr != nil {
		if errors.Is(ownerErr, entities.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("looking up revision %d: %w", id, ownerErr)
	}
	if owner == entityID {
		return nil, err
	}
	return nil, fmt.Errorf("revision %d belongs to entity %s, not %s: %w",
		id, owner, entityID, entities.ErrInvalidTransition)
}

// Revisions lists an entity's revisions, oldest first.
func (s *EntityService) Revisions(ctx context.Context, entityID string) ([]entities.Revision, error) {
	if _, err := s.store.LoadEntity(ctx, entityID); err != nil {
		return nil, err
	}
	return s.store.ListRevisions(ctx, entityID)
}

// History returns the entity's audit log, oldest first.
func (s *EntityService) History(ctx context.Context, entityID string) ([]entities.AuditEntry, error) {
	if _, err := s.store.LoadEntity(ctx, entityID); err != nil {
		return nil, err
	}
	return s.store.FindAuditLog(ctx, entityID)
}
