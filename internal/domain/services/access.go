package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/ports"
)

// AccessEvaluator decides whether a principal may view, revert or delete a
// specific revision.
type AccessEvaluator struct {
	store   ports.RevisionReader
	generic ports.EntityAccessChecker
	cache   ports.AccessCache
	opts    Options
	logger  *zap.Logger
}

// NewAccessEvaluator creates a new AccessEvaluator. A nil cache disables caching.
func NewAccessEvaluator(
	store ports.RevisionReader,
	generic ports.EntityAccessChecker,
	cache ports.AccessCache,
	opts Options,
	logger *zap.Logger,
) *AccessEvaluator {
	if cache == nil {
		cache = ports.NoopAccessCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessEvaluator{
		store:   store,
		generic: generic,
		cache:   cache,
		opts:    opts.withDefaults(),
		logger:  logger,
	}
}

// CheckAccess reports whether principal may perform op on rev. A denial is a
// false result, never an error.
func (e *AccessEvaluator) CheckAccess(ctx context.Context, rev *entities.Revision, principal entities.Principal, op entities.Operation) (bool, error) {
	if rev == nil || principal == nil {
		return false, nil
	}

	key := ports.AccessKey{
		EntityID:    rev.EntityID,
		PrincipalID: principal.PrincipalID(),
		Grants:      grantsFingerprint(principal),
		RevisionID:  rev.ID,
		Operation:   op,
	}
	return e.cache.Remember(ctx, key, func(ctx context.Context) (bool, error) {
		return e.evaluate(ctx, rev, principal, op)
	})
}

func (e *AccessEvaluator) evaluate(ctx context.Context, rev *entities.Revision, principal entities.Principal, op entities.Operation) (bool, error) {
	switch op {
	case entities.OperationView:
		return e.generic.Access(ctx, rev, op, principal)
	case entities.OperationUpdate, entities.OperationDelete:
		return e.checkModerationAccess(ctx, rev, principal, op)
	default:
		return false, nil
	}
}

func (e *AccessEvaluator) checkModerationAccess(ctx context.Context, rev *entities.Revision, principal entities.Principal, op entities.Operation) (bool, error) {
	entity, err := e.store.LoadEntity(ctx, rev.EntityID)
	if err != nil {
		return false, fmt.Errorf("loading entity: %w", err)
	}

	if !holdsAny(principal, PermissionsFor(op, entity.Type, e.opts.EntityKind)) {
		e.deny(rev, principal, op, "missing permission")
		return false, nil
	}

	// There is nothing to fall back to when the default revision is the only
	// one in its language, so administrators are denied too.
	if rev.IsDefault {
		if !e.opts.DraftSupport {
			e.deny(rev, principal, op, "default revision")
			return false, nil
		}
		count, err := e.store.CountRevisionsInLanguage(ctx, entity.ID, rev.Language)
		if err != nil {
			return false, fmt.Errorf("counting revisions: %w", err)
		}
		if count <= 1 {
			e.deny(rev, principal, op, "sole default revision")
			return false, nil
		}
	}

	if principal.HasPermission(AdministerPermission(e.opts.EntityKind)) {
		return true, nil
	}

	if entity.DefaultRevisionID == entities.NoRevision {
		e.deny(rev, principal, op, "entity has no default revision")
		return false, nil
	}
	current, err := e.store.LoadRevision(ctx, entity.ID, entity.DefaultRevisionID)
	if err != nil {
		return false, fmt.Errorf("loading default revision: %w", err)
	}
	ok, err := e.generic.Access(ctx, current, op, principal)
	if err != nil {
		return false, fmt.Errorf("checking default revision access: %w", err)
	}
	if !ok {
		e.deny(rev, principal, op, "no access to default revision")
		return false, nil
	}
	if rev.IsDefault {
		return true, nil
	}

	ok, err = e.generic.Access(ctx, rev, op, principal)
	if err != nil {
		return false, fmt.Errorf("checking revision access: %w", err)
	}
	if !ok {
		e.deny(rev, principal, op, "no access to revision")
	}
	return ok, nil
}

func (e *AccessEvaluator) deny(rev *entities.Revision, principal entities.Principal, op entities.Operation, reason string) {
	e.logger.Debug("revision access denied",
		zap.String("entity_id", rev.EntityID),
		zap.Int64("revision_id", int64(rev.ID)),
		zap.String("principal", principal.PrincipalID()),
		zap.String("operation", string(op)),
		zap.String("reason", reason),
	)
}
