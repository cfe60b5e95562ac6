package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubmitAction(t *testing.T) {
	tests := []struct {
		input    string
		expected SubmitAction
		wantErr  bool
	}{
		{"draft", ActionSaveAsDraft, false},
		{"save-as-draft", ActionSaveAsDraft, false},
		{"publish", ActionSaveAndPublish, false},
		{"save-and-publish", ActionSaveAndPublish, false},
		{"unpublish", ActionSaveAndUnpublish, false},
		{"save", ActionSaveDefault, false},
		{"save-default", ActionSaveDefault, false},
		{"", "", true},
		{"Publish", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			action, err := ParseSubmitAction(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, action)
		})
	}
}

func TestParseOperation(t *testing.T) {
	op, err := ParseOperation("revert")
	require.NoError(t, err)
	assert.Equal(t, OperationUpdate, op)

	op, err = ParseOperation("delete")
	require.NoError(t, err)
	assert.Equal(t, OperationDelete, op)

	_, err = ParseOperation("publish")
	require.Error(t, err)
}

func TestSubmitAction_Publishes(t *testing.T) {
	assert.True(t, ActionSaveAndPublish.Publishes())
	assert.False(t, ActionSaveAsDraft.Publishes())
	assert.False(t, ActionSaveAndUnpublish.Publishes())
	assert.False(t, ActionSaveDefault.Publishes())
}

func TestAccount_HasPermission(t *testing.T) {
	acct := NewAccount("u1", " Revert All Revisions ", "delete article revisions", "", "delete article revisions")

	assert.True(t, acct.HasPermission("revert all revisions"))
	assert.True(t, acct.HasPermission("DELETE ARTICLE REVISIONS"))
	assert.False(t, acct.HasPermission("administer nodes"))
	assert.Equal(t, []string{"delete article revisions", "revert all revisions"}, acct.Permissions())
	assert.Equal(t, "u1", acct.PrincipalID())
}

func TestRevisionFlags(t *testing.T) {
	f := SetDefault(false)
	require.NotNil(t, f.IsDefault)
	assert.False(t, *f.IsDefault)
	assert.Nil(t, f.Published)

	p := Promote()
	assert.True(t, *p.IsDefault)
	assert.True(t, *p.Published)

	assert.Equal(t, "101", RevisionID(101).String())
}
