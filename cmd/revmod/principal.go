package main

import "github.com/ersonp/revmod/internal/domain/entities"

// currentPrincipal builds the principal from the --user and --perm flags.
func currentPrincipal() *entities.Account {
	return entities.NewAccount(globalUser, globalPerms...)
}
