package entities

import "errors"

var (
	// ErrNotFound indicates a referenced entity or revision does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPermissionDenied indicates the access evaluator denied the operation.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidTransition indicates a transition that must be rejected before
	// any mutation, such as deleting an entity's sole revision.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrInvalidEntity indicates entity input rejected before it was stored.
	ErrInvalidEntity = errors.New("invalid entity")
	// ErrConsistencyViolation indicates the stored default flags break the
	// one-default-per-entity invariant. Transitions refuse to proceed.
	ErrConsistencyViolation = errors.New("consistency violation")
)
