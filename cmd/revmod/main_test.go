package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/revmod/internal/application/handlers"
)

// execute runs the CLI in dir and returns its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func executeJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := execute(t, "", append(args, "--json")...)
	require.NoError(t, err, out)
	require.NoError(t, json.Unmarshal([]byte(out), v), out)
}

func TestCLI_Workflow(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "revmod initialized successfully!")

	var created struct {
		Entity struct {
			ID string `json:"id"`
		} `json:"entity"`
		Current struct {
			ID        int64 `json:"id"`
			Published bool  `json:"published"`
		} `json:"current"`
	}
	executeJSON(t, &created, "create", "--type", "article", "--title", "Hello", "--body", "first", "--published",
		"-u", "alice", "-p", "create article content")
	id := created.Entity.ID
	require.NotEmpty(t, id)
	assert.True(t, created.Current.Published)

	editor := []string{"-u", "alice", "-p", "edit any article content"}

	out, err = execute(t, "", append([]string{"save", id, "-a", "draft", "--title", "Hello v2"}, editor...)...)
	require.NoError(t, err, out)
	assert.Contains(t, out, "save-as-draft")

	var shown struct {
		Current struct {
			Content struct {
				Title string `json:"title"`
			} `json:"content"`
		} `json:"current"`
		HasDraft bool  `json:"has_draft"`
		DraftID  int64 `json:"draft_id"`
	}
	executeJSON(t, &shown, "show", id, "-p", "access content")
	assert.Equal(t, "Hello", shown.Current.Content.Title, "a draft leaves the published revision in place")
	assert.True(t, shown.HasDraft)
	assert.Equal(t, int64(2), shown.DraftID)

	out, err = execute(t, "", append([]string{"save", id, "-a", "publish"}, editor...)...)
	require.NoError(t, err, out)

	executeJSON(t, &shown, "show", id, "-p", "access content")
	assert.Equal(t, "Hello v2", shown.Current.Content.Title)
	assert.False(t, shown.HasDraft)

	out, err = execute(t, "", "delete", id, "1", "-f", "-p", "delete article revisions", "-p", "delete any article content")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deleted revision 1")

	var access struct {
		Allowed bool `json:"allowed"`
	}
	executeJSON(t, &access, "access", id, "2", "delete", "-p", "administer nodes")
	assert.False(t, access.Allowed, "the sole revision cannot be deleted")

	var history []struct {
		Action string `json:"action"`
	}
	executeJSON(t, &history, "history", id)
	actions := make([]string, 0, len(history))
	for _, h := range history {
		actions = append(actions, h.Action)
	}
	assert.Equal(t, []string{"entity.create", "revision.submit", "revision.publish", "revision.delete"}, actions)
}

func TestCLI_ErrorsMapToExitCodes(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := execute(t, "", "init")
	require.NoError(t, err)

	_, err = execute(t, "", "show", "missing", "-p", "access content")
	assert.Equal(t, handlers.ExitNotFound, handlers.ExitCode(err))

	_, err = execute(t, "", "create", "--type", "article", "--title", "x")
	assert.Equal(t, handlers.ExitPermissionDenied, handlers.ExitCode(err))

	_, err = execute(t, "", "revert", "missing", "abc")
	assert.Equal(t, handlers.ExitInvalidRequest, handlers.ExitCode(err))
}

func TestCLI_DeleteCancelled(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "n\n", "delete", "some-entity", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete revision 3 of some-entity? [y/N]: ")
	assert.Contains(t, out, "Cancelled.")
}

func TestCLI_RequiresInit(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revmod init")
}
