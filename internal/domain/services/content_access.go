package services

import (
	"context"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/ports"
)

// Permissions understood by ContentAccessPolicy.
const (
	PermissionBypassAccess     = "bypass content access"
	PermissionAccessContent    = "access content"
	PermissionViewOwnUnpub     = "view own unpublished content"
	PermissionViewAllRevisions = "view all revisions"
)

// ContentAccessPolicy is the generic entity-level access check:
//
//	view    published default revisions need "access content"; unpublished
//	        ones need authorship plus "view own unpublished content"; other
//	        revisions need "view all revisions" or "view <type> revisions".
//	update  "edit any <type> content", or "edit own <type> content" as author.
//	delete  "delete any <type> content", or "delete own <type> content" as author.
//
// "bypass content access" grants everything.
type ContentAccessPolicy struct {
	store ports.RevisionReader
}

var _ ports.EntityAccessChecker = (*ContentAccessPolicy)(nil)

// NewContentAccessPolicy creates a new ContentAccessPolicy.
func NewContentAccessPolicy(store ports.RevisionReader) *ContentAccessPolicy {
	return &ContentAccessPolicy{store: store}
}

// Access implements ports.EntityAccessChecker.
func (p *ContentAccessPolicy) Access(ctx context.Context, rev *entities.Revision, op entities.Operation, principal entities.Principal) (bool, error) {
	if principal.HasPermission(PermissionBypassAccess) {
		return true, nil
	}

	entity, err := p.store.LoadEntity(ctx, rev.EntityID)
	if err != nil {
		return false, err
	}
	own := rev.AuthorID != "" && rev.AuthorID == principal.PrincipalID()

	switch op {
	case entities.OperationView:
		if !rev.IsDefault {
			return principal.HasPermission(PermissionViewAllRevisions) ||
				principal.HasPermission("view "+entity.Type+" revisions"), nil
		}
		if rev.Published {
			return principal.HasPermission(PermissionAccessContent), nil
		}
		return own && principal.HasPermission(PermissionViewOwnUnpub), nil
	case entities.OperationUpdate:
		return principal.HasPermission("edit any "+entity.Type+" content") ||
			(own && principal.HasPermission("edit own "+entity.Type+" content")), nil
	case entities.OperationDelete:
		return principal.HasPermission("delete any "+entity.Type+" content") ||
			(own && principal.HasPermission("delete own "+entity.Type+" content")), nil
	default:
		return false, nil
	}
}

// CanCreate reports whether principal may create entities of entityType.
func CanCreate(principal entities.Principal, entityType string) bool {
	if principal == nil {
		return false
	}
	return principal.HasPermission(PermissionBypassAccess) ||
		principal.HasPermission("create "+entityType+" content")
}
