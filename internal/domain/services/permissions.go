package services

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/ersonp/revmod/internal/domain/entities"
)

// DefaultEntityKind names the entity kind in the administer permission.
const DefaultEntityKind = "nodes"

// AdministerPermission returns the permission that satisfies every revision
// operation for the entity kind.
func AdministerPermission(entityKind string) string {
	return "administer " + entityKind
}

// PermissionsFor returns the permissions of which any one allows op on
// revisions of entityType. View and unknown operations need none of these and
// yield nil.
func PermissionsFor(op entities.Operation, entityType, entityKind string) []string {
	var verb string
	switch op {
	case entities.OperationUpdate:
		verb = "revert"
	case entities.OperationDelete:
		verb = "delete"
	default:
		return nil
	}
	return []string{
		verb + " " + entityType + " revisions",
		verb + " all revisions",
		AdministerPermission(entityKind),
	}
}

func holdsAny(p entities.Principal, perms []string) bool {
	for _, perm := range perms {
		if p.HasPermission(perm) {
			return true
		}
	}
	return false
}

// grantsFingerprint identifies a permission set independent of its order.
func grantsFingerprint(p entities.Principal) string {
	perms := append([]string(nil), p.Permissions()...)
	sort.Strings(perms)
	sum := sha256.Sum256([]byte(strings.Join(perms, "\n")))
	return hex.EncodeToString(sum[:8])
}
