package ports

import (
	"context"

	"github.com/ersonp/revmod/internal/domain/entities"
)

// EntityAccessChecker is the generic entity-level access check the revision
// access evaluator refines.
type EntityAccessChecker interface {
	Access(ctx context.Context, rev *entities.Revision, op entities.Operation, principal entities.Principal) (bool, error)
}

// AccessCache memoizes access decisions.
type AccessCache interface {
	// Remember returns the cached decision for key or computes and stores it.
	Remember(ctx context.Context, key AccessKey, compute func(ctx context.Context) (bool, error)) (bool, error)

	// Invalidate drops every cached decision for the entity.
	Invalidate(ctx context.Context, entityID string) error
}

// AccessKey identifies one access decision.
type AccessKey struct {
	EntityID    string
	PrincipalID string
	Grants      string // fingerprint of the principal's permission set
	RevisionID  entities.RevisionID
	Operation   entities.Operation
}

// NoopAccessCache computes every decision without caching.
type NoopAccessCache struct{}

// Remember calls compute.
func (NoopAccessCache) Remember(ctx context.Context, _ AccessKey, compute func(ctx context.Context) (bool, error)) (bool, error) {
	return compute(ctx)
}

// Invalidate does nothing.
func (NoopAccessCache) Invalidate(context.Context, string) error {
	return nil
}
