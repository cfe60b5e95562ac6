package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/revmod/internal/application/handlers"
	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/infrastructure/config"
)

func configWith(kind, draftOperation string) config.ModerationConfig {
	return config.ModerationConfig{
		EntityKind:     kind,
		DraftSupport:   true,
		DraftOperation: draftOperation,
	}
}

func TestFormatDetails(t *testing.T) {
	assert.Equal(t, "-", formatDetails(nil))
	assert.Equal(t, "action=save-default is_default=true published=false", formatDetails(map[string]any{
		"published":  false,
		"action":     "save-default",
		"is_default": true,
	}))
}

func TestFormatOperations(t *testing.T) {
	assert.Equal(t, "revert,delete", formatOperations(true, true))
	assert.Equal(t, "delete", formatOperations(false, true))
	assert.Equal(t, "-", formatOperations(false, false))
}

func TestParseRevisionID(t *testing.T) {
	id, err := parseRevisionID("42")
	require.NoError(t, err)
	assert.Equal(t, entities.RevisionID(42), id)

	for _, bad := range []string{"", "0", "-3", "abc"} {
		_, err := parseRevisionID(bad)
		assert.ErrorIs(t, err, handlers.ErrInvalidRequest, bad)
	}
}

func TestModerationOptions(t *testing.T) {
	opts, err := moderationOptions(configWith("media", "revert"))
	require.NoError(t, err)
	assert.Equal(t, "media", opts.EntityKind)
	assert.Equal(t, entities.OperationUpdate, opts.DraftOperation)
	assert.True(t, opts.DraftSupport)

	_, err = moderationOptions(configWith("nodes", "publish"))
	require.Error(t, err)
}
