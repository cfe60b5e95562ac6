package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ersonp/revmod/internal/domain/entities"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"denied", fmt.Errorf("delete revision 3: %w", entities.ErrPermissionDenied), ExitPermissionDenied},
		{"not found", fmt.Errorf("entity x: %w", entities.ErrNotFound), ExitNotFound},
		{"invalid transition", entities.ErrInvalidTransition, ExitInvalidTransition},
		{"consistency", fmt.Errorf("loading: %w", entities.ErrConsistencyViolation), ExitConsistencyViolation},
		{"invalid request", fmt.Errorf("%w: title is required", ErrInvalidRequest), ExitInvalidRequest},
		{"invalid entity", entities.ErrInvalidEntity, ExitInvalidRequest},
		{"other", errors.New("disk I/O error"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
