package handlers

import (
	"errors"

	"github.com/ersonp/revmod/internal/domain/entities"
)

// Process exit codes reported by the CLI.
const (
	ExitOK                   = 0
	ExitFailure              = 1
	ExitInvalidRequest       = 2
	ExitPermissionDenied     = 3
	ExitNotFound             = 4
	ExitInvalidTransition    = 5
	ExitConsistencyViolation = 6
)

// ExitCode maps an error returned by a handler to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, entities.ErrPermissionDenied):
		return ExitPermissionDenied
	case errors.Is(err, entities.ErrNotFound):
		return ExitNotFound
	case errors.Is(err, entities.ErrInvalidTransition):
		return ExitInvalidTransition
	case errors.Is(err, entities.ErrConsistencyViolation):
		return ExitConsistencyViolation
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, entities.ErrInvalidEntity):
		return ExitInvalidRequest
	default:
		return ExitFailure
	}
}
