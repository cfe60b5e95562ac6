package entities

import (
	"sort"
	"strings"
)

// Principal is a caller identity carrying an opaque set of granted permissions.
type Principal interface {
	PrincipalID() string
	HasPermission(permission string) bool
	Permissions() []string
}

// Account is the concrete Principal used by the CLI and tests.
type Account struct {
	ID     string
	Grants []string
}

// NewAccount builds an Account, normalizing and de-duplicating grants.
func NewAccount(id string, grants ...string) *Account {
	return &Account{ID: id, Grants: normalizePermissions(grants)}
}

// PrincipalID returns the account id.
func (a *Account) PrincipalID() string {
	return a.ID
}

// HasPermission reports whether the permission was granted.
func (a *Account) HasPermission(permission string) bool {
	permission = strings.ToLower(strings.TrimSpace(permission))
	for _, g := range a.Grants {
		if g == permission {
			return true
		}
	}
	return false
}

// Permissions returns the granted permissions in sorted order.
func (a *Account) Permissions() []string {
	return a.Grants
}

func normalizePermissions(perms []string) []string {
	unique := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		unique[p] = struct{}{}
	}
	normalized := make([]string, 0, len(unique))
	for p := range unique {
		normalized = append(normalized, p)
	}
	sort.Strings(normalized)
	return normalized
}
