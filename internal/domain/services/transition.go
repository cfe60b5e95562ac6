package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/ports"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Submission is the outcome of an edit-form submit.
type Submission struct {
	Action entities.SubmitAction
	// Content is the edited content. Nil re-saves the revision being edited;
	// for save-and-publish on a draft it publishes the draft in place.
	Content    *entities.Content
	AuthorID   string
	LogMessage string
}

// RevertOptions configures a revert.
type RevertOptions struct {
	AuthorID string
	// LogMessage defaults to "Copy of the revision from <date>."
	LogMessage string
}

// DeleteResult reports the outcome of deleting a revision.
type DeleteResult struct {
	Deleted  entities.RevisionID `json:"deleted"`
	Promoted entities.RevisionID `json:"promoted,omitempty"`
}

// SubmissionFlags are the flags a submitted revision receives.
type SubmissionFlags struct {
	Published bool
	IsDefault bool
}

// DecideSubmission maps a submit action to the new revision's flags.
// editingDraft is whether the form was showing a draft; basePublished is the
// published flag of the revision being edited.
func DecideSubmission(action entities.SubmitAction, editingDraft, basePublished bool) (SubmissionFlags, error) {
	var published bool
	switch action {
	case entities.ActionSaveAsDraft:
		published = false
		editingDraft = true
	case entities.ActionSaveAndPublish:
		published = true
	case entities.ActionSaveAndUnpublish:
		published = false
	case entities.ActionSaveDefault:
		published = basePublished
	default:
		return SubmissionFlags{}, fmt.Errorf("unknown submit action %q: %w", action, entities.ErrInvalidTransition)
	}
	return SubmissionFlags{
		Published: published,
		IsDefault: action.Publishes() || !editingDraft,
	}, nil
}

// ReplacementDefault picks the revision promoted when the default revision
// target is deleted: the active draft if it is not the target, else the
// highest remaining id. NoRevision means nothing remains.
func ReplacementDefault(target, draft entities.RevisionID, ids []entities.RevisionID) entities.RevisionID {
	if draft != entities.NoRevision && draft != target {
		return draft
	}
	replacement := entities.NoRevision
	for _, id := range ids {
		if id != target && id > replacement {
			replacement = id
		}
	}
	return replacement
}

// transitionState is the entity's state read at the start of a transition,
// inside the entity's serialization boundary.
type transitionState struct {
	entity    entities.Entity
	revisions []entities.Revision
	ids       []entities.RevisionID
	draftID   entities.RevisionID
}

func (s transitionState) revision(id entities.RevisionID) (entities.Revision, bool) {
	for i := range s.revisions {
		if s.revisions[i].ID == id {
			return s.revisions[i], true
		}
	}
	return entities.Revision{}, false
}

// base is the revision an edit form is showing: the draft if one exists,
// else the default.
func (s transitionState) base() (entities.Revision, bool) {
	if s.draftID != entities.NoRevision {
		return s.revision(s.draftID)
	}
	return s.revision(s.entity.DefaultRevisionID)
}

// TransitionEngine applies submit, revert and delete transitions.
type TransitionEngine struct {
	store  ports.RevisionStore
	cache  ports.AccessCache
	logger *zap.Logger
}

// NewTransitionEngine creates a new TransitionEngine.
func NewTransitionEngine(store ports.RevisionStore, cache ports.AccessCache, logger *zap.Logger) *TransitionEngine {
	if cache == nil {
		cache = ports.NoopAccessCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransitionEngine{store: store, cache: cache, logger: logger}
}

// Submit creates a revision from a form submission and flags it per the
// chosen action. Returns the id of the revision that holds the submission.
func (t *TransitionEngine) Submit(ctx context.Context, entityID string, sub Submission) (entities.RevisionID, error) {
	var result entities.RevisionID
	var flags SubmissionFlags

	err := t.within(ctx, entityID, func(ctx context.Context, tx ports.RevisionTx) error {
		state, err := loadTransitionState(ctx, tx, entityID)
		if err != nil {
			return err
		}
		base, ok := state.base()
		if !ok {
			return fmt.Errorf("entity %s has no revision to edit: %w", entityID, entities.ErrInvalidTransition)
		}
		editingDraft := state.draftID != entities.NoRevision

		flags, err = DecideSubmission(sub.Action, editingDraft, base.Published)
		if err != nil {
			return err
		}

		if sub.Content == nil && editingDraft && sub.Action.Publishes() {
			result = state.draftID
			if err := promote(ctx, tx, state.entity.DefaultRevisionID, state.draftID, entities.Promote()); err != nil {
				return err
			}
			return tx.LogAction(ctx, auditEntry(entities.ActionRevisionPublish, entityID, result, map[string]any{
				"action": string(sub.Action),
			}))
		}

		content := base.Content
		if sub.Content != nil {
			content = *sub.Content
		}
		result, err = tx.CreateRevision(ctx, entityID, entities.NewRevision{
			AuthorID:   sub.AuthorID,
			Language:   base.Language,
			Content:    content,
			LogMessage: sub.LogMessage,
			Published:  flags.Published,
			IsDefault:  false,
			CreatedAt:  timeNow(),
		})
		if err != nil {
			return fmt.Errorf("creating revision: %w", err)
		}

		if flags.IsDefault {
			if err := promote(ctx, tx, state.entity.DefaultRevisionID, result, entities.SetDefault(true)); err != nil {
				return err
			}
		}

		return tx.LogAction(ctx, auditEntry(entities.ActionRevisionSubmit, entityID, result, map[string]any{
			"action":     string(sub.Action),
			"published":  flags.Published,
			"is_default": flags.IsDefault,
		}))
	})
	if err != nil {
		return entities.NoRevision, err
	}

	t.logger.Info("revision submitted",
		zap.String("entity_id", entityID),
		zap.Int64("revision_id", int64(result)),
		zap.String("action", string(sub.Action)),
		zap.Bool("published", flags.Published),
		zap.Bool("is_default", flags.IsDefault),
	)
	return result, nil
}

// Revert creates a new unpublished, non-default revision copying the source
// revision's content. Reverting never republishes.
func (t *TransitionEngine) Revert(ctx context.Context, entityID string, source entities.RevisionID, opts RevertOptions) (entities.RevisionID, error) {
	var result entities.RevisionID

	err := t.within(ctx, entityID, func(ctx context.Context, tx ports.RevisionTx) error {
		state, err := loadTransitionState(ctx, tx, entityID)
		if err != nil {
			return err
		}
		src, err := ownedRevision(ctx, tx, state, source)
		if err != nil {
			return err
		}

		logMessage := opts.LogMessage
		if logMessage == "" {
			logMessage = fmt.Sprintf("Copy of the revision from %s.", src.CreatedAt.Format(time.RFC1123))
		}
		result, err = tx.CreateRevision(ctx, entityID, entities.NewRevision{
			AuthorID:   opts.AuthorID,
			Language:   src.Language,
			Content:    src.Content,
			LogMessage: logMessage,
			Published:  false,
			IsDefault:  false,
			CreatedAt:  timeNow(),
		})
		if err != nil {
			return fmt.Errorf("creating revision: %w", err)
		}

		return tx.LogAction(ctx, auditEntry(entities.ActionRevisionRevert, entityID, result, map[string]any{
			"source": int64(source),
		}))
	})
	if err != nil {
		return entities.NoRevision, err
	}

	t.logger.Info("revision reverted",
		zap.String("entity_id", entityID),
		zap.Int64("source_id", int64(source)),
		zap.Int64("revision_id", int64(result)),
	)
	return result, nil
}

// Delete removes a revision. Deleting the default revision first promotes a
// replacement: demote old, promote new, then delete.
func (t *TransitionEngine) Delete(ctx context.Context, entityID string, target entities.RevisionID) (DeleteResult, error) {
	result := DeleteResult{Deleted: target}

	err := t.within(ctx, entityID, func(ctx context.Context, tx ports.RevisionTx) error {
		state, err := loadTransitionState(ctx, tx, entityID)
		if err != nil {
			return err
		}
		rev, err := ownedRevision(ctx, tx, state, target)
		if err != nil {
			return err
		}
		if len(state.revisions) <= 1 {
			return fmt.Errorf("cannot delete the only revision of entity %s: %w", entityID, entities.ErrInvalidTransition)
		}

		if rev.IsDefault {
			replacement := ReplacementDefault(target, state.draftID, state.ids)
			if replacement == entities.NoRevision {
				return fmt.Errorf("no revision left to promote for entity %s: %w", entityID, entities.ErrInvalidTransition)
			}
			if err := promote(ctx, tx, target, replacement, entities.SetDefault(true)); err != nil {
				return err
			}
			result.Promoted = replacement
		}

		if err := tx.DeleteRevision(ctx, target); err != nil {
			return fmt.Errorf("deleting revision: %w", err)
		}

		details := map[string]any{}
		if result.Promoted != entities.NoRevision {
			details["promoted"] = int64(result.Promoted)
		}
		return tx.LogAction(ctx, auditEntry(entities.ActionRevisionDelete, entityID, target, details))
	})
	if err != nil {
		return DeleteResult{}, err
	}

	t.logger.Info("revision deleted",
		zap.String("entity_id", entityID),
		zap.Int64("revision_id", int64(target)),
		zap.Int64("promoted_id", int64(result.Promoted)),
	)
	return result, nil
}

// within runs fn in the entity's transaction and invalidates its cached
// access decisions twice: before commit, so an unreachable cache rolls the
// transition back, and after commit, so a decision computed against the old
// state while the commit was in flight is dropped too.
func (t *TransitionEngine) within(ctx context.Context, entityID string, fn func(ctx context.Context, tx ports.RevisionTx) error) error {
	err := t.store.WithinEntity(ctx, entityID, func(ctx context.Context, tx ports.RevisionTx) error {
		if err := fn(ctx, tx); err != nil {
			return err
		}
		if err := t.cache.Invalidate(ctx, entityID); err != nil {
			return fmt.Errorf("invalidating access cache: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := t.cache.Invalidate(ctx, entityID); err != nil {
		t.logger.Warn("invalidating access cache after commit", zap.String("entity_id", entityID), zap.Error(err))
	}
	return nil
}

// promote moves the default flag from oldDefault to id, demoting first.
func promote(ctx context.Context, tx ports.RevisionTx, oldDefault, id entities.RevisionID, flags entities.RevisionFlags) error {
	if oldDefault != entities.NoRevision && oldDefault != id {
		if err := tx.SetRevisionFlags(ctx, oldDefault, entities.SetDefault(false)); err != nil {
			return fmt.Errorf("demoting revision %d: %w", oldDefault, err)
		}
	}
	if err := tx.SetRevisionFlags(ctx, id, flags); err != nil {
		return fmt.Errorf("promoting revision %d: %w", id, err)
	}
	return nil
}

// loadTransitionState reads the entity and verifies that exactly one of its
// revisions is default and that it matches the entity's DefaultRevisionID.
func loadTransitionState(ctx context.Context, tx ports.RevisionTx, entityID string) (transitionState, error) {
	entity, err := tx.LoadEntity(ctx, entityID)
	if err != nil {
		return transitionState{}, fmt.Errorf("loading entity: %w", err)
	}
	revisions, err := tx.ListRevisions(ctx, entityID)
	if err != nil {
		return transitionState{}, fmt.Errorf("listing revisions: %w", err)
	}

	state := transitionState{
		entity:    *entity,
		revisions: revisions,
		ids:       make([]entities.RevisionID, len(revisions)),
	}
	defaults := 0
	for i := range revisions {
		state.ids[i] = revisions[i].ID
		if revisions[i].IsDefault {
			defaults++
			if revisions[i].ID != entity.DefaultRevisionID {
				return transitionState{}, fmt.Errorf("entity %s: revision %d is default but entity points at %d: %w",
					entityID, revisions[i].ID, entity.DefaultRevisionID, entities.ErrConsistencyViolation)
			}
		}
	}
	if len(revisions) > 0 && defaults != 1 {
		return transitionState{}, fmt.Errorf("entity %s has %d default revisions: %w",
			entityID, defaults, entities.ErrConsistencyViolation)
	}
	if len(revisions) == 0 && entity.DefaultRevisionID != entities.NoRevision {
		return transitionState{}, fmt.Errorf("entity %s points at missing default revision %d: %w",
			entityID, entity.DefaultRevisionID, entities.ErrConsistencyViolation)
	}

	state.draftID = ResolveDraft(entity.DefaultRevisionID, state.ids)
	return state, nil
}

// ownedRevision returns the revision if it belongs to the entity. A revision
// of another entity is an invalid transition, a missing one is not found.
func ownedRevision(ctx context.Context, tx ports.RevisionTx, state transitionState, id entities.RevisionID) (entities.Revision, error) {
	if rev, ok := state.revision(id); ok {
		return rev, nil
	}
	owner, err := tx.RevisionEntityID(ctx, id)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return entities.Revision{}, fmt.Errorf("revision %d: %w", id, entities.ErrNotFound)
		}
		return entities.Revision{}, fmt.Errorf("looking up revision %d: %w", id, err)
	}
	return entities.Revision{}, fmt.Errorf("revision %d belongs to entity %s, not %s: %w",
		id, owner, state.entity.ID, entities.ErrInvalidTransition)
}

func auditEntry(action, entityID string, id entities.RevisionID, details map[string]any) entities.AuditEntry {
	return entities.AuditEntry{
		Action:     action,
		EntityID:   entityID,
		RevisionID: id,
		Details:    details,
		CreatedAt:  timeNow(),
	}
}
