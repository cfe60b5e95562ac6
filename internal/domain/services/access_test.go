package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/mocks"
)

func TestPermissionsFor(t *testing.T) {
	assert.Equal(t, []string{"revert article revisions", "revert all revisions", "administer nodes"},
		PermissionsFor(entities.OperationUpdate, "article", "nodes"))
	assert.Equal(t, []string{"delete page revisions", "delete all revisions", "administer content"},
		PermissionsFor(entities.OperationDelete, "page", "content"))
	assert.Empty(t, PermissionsFor(entities.OperationView, "article", "nodes"))
	assert.Empty(t, PermissionsFor("publish", "article", "nodes"))
}

func TestGrantsFingerprint_OrderIndependent(t *testing.T) {
	a := &entities.Account{ID: "u", Grants: []string{"b", "a"}}
	b := &entities.Account{ID: "u", Grants: []string{"a", "b"}}
	c := &entities.Account{ID: "u", Grants: []string{"a"}}

	assert.Equal(t, grantsFingerprint(a), grantsFingerprint(b))
	assert.NotEqual(t, grantsFingerprint(a), grantsFingerprint(c))
}

// accessFixture has one article with revisions 1 (archived), 2 (default) and
// 3 (draft), all in English.
func accessFixture(t *testing.T) (*mocks.RevisionStore, *mocks.EntityAccess) {
	t.Helper()
	store := mocks.NewRevisionStore()
	store.Seed(entities.Entity{ID: "e", Type: "article"},
		entities.Revision{ID: 1, Published: true},
		entities.Revision{ID: 2, Published: true, IsDefault: true},
		entities.Revision{ID: 3},
	)
	return store, mocks.NewEntityAccess()
}

func TestAccessEvaluator_CheckAccess(t *testing.T) {
	tests := []struct {
		name     string
		grants   []string
		deny     map[entities.Operation]entities.RevisionID
		revision entities.RevisionID
		op       entities.Operation
		want     bool
	}{
		{
			name:     "no permission",
			grants:   []string{"access content"},
			revision: 1,
			op:       entities.OperationUpdate,
			want:     false,
		},
		{
			name:     "type revert permission",
			grants:   []string{"revert article revisions"},
			revision: 1,
			op:       entities.OperationUpdate,
			want:     true,
		},
		{
			name:     "revert all revisions alone is enough",
			grants:   []string{"revert all revisions"},
			revision: 1,
			op:       entities.OperationUpdate,
			want:     true,
		},
		{
			name:     "revert permission of another type",
			grants:   []string{"revert page revisions"},
			revision: 1,
			op:       entities.OperationUpdate,
			want:     false,
		},
		{
			name:     "delete needs delete permission",
			grants:   []string{"revert all revisions"},
			revision: 1,
			op:       entities.OperationDelete,
			want:     false,
		},
		{
			name:     "delete all revisions",
			grants:   []string{"delete all revisions"},
			revision: 3,
			op:       entities.OperationDelete,
			want:     true,
		},
		{
			name:     "generic denies default revision",
			grants:   []string{"revert all revisions"},
			deny:     map[entities.Operation]entities.RevisionID{entities.OperationUpdate: 2},
			revision: 1,
			op:       entities.OperationUpdate,
			want:     false,
		},
		{
			name:     "generic denies target revision",
			grants:   []string{"revert all revisions"},
			deny:     map[entities.Operation]entities.RevisionID{entities.OperationUpdate: 1},
			revision: 1,
			op:       entities.OperationUpdate,
			want:     false,
		},
		{
			name:     "administer skips generic check",
			grants:   []string{"administer nodes"},
			deny:     map[entities.Operation]entities.RevisionID{entities.OperationDelete: 2},
			revision: 1,
			op:       entities.OperationDelete,
			want:     true,
		},
		{
			name:     "default revision with siblings",
			grants:   []string{"delete article revisions"},
			revision: 2,
			op:       entities.OperationDelete,
			want:     true,
		},
		{
			name:     "view delegates to generic",
			revision: 3,
			op:       entities.OperationView,
			want:     true,
		},
		{
			name:     "view denied by generic",
			grants:   []string{"administer nodes"},
			deny:     map[entities.Operation]entities.RevisionID{entities.OperationView: 3},
			revision: 3,
			op:       entities.OperationView,
			want:     false,
		},
		{
			name:     "unknown operation",
			grants:   []string{"administer nodes"},
			revision: 1,
			op:       "publish",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, generic := accessFixture(t)
			for op, id := range tt.deny {
				generic.DenyOn(op, id)
			}
			evaluator := NewAccessEvaluator(store, generic, nil, DefaultOptions(), nil)
			rev, err := store.LoadRevision(t.Context(), "e", tt.revision)
			require.NoError(t, err)

			got, err := evaluator.CheckAccess(t.Context(), rev, entities.NewAccount("u", tt.grants...), tt.op)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAccessEvaluator_SoleDefaultProtected(t *testing.T) {
	store := mocks.NewRevisionStore()
	store.Seed(entities.Entity{ID: "e", Type: "article", Language: "en"},
		entities.Revision{ID: 1, Published: true, IsDefault: true},
		entities.Revision{ID: 2, Language: "fr"},
	)
	evaluator := NewAccessEvaluator(store, mocks.NewEntityAccess(), nil, DefaultOptions(), nil)
	admin := entities.NewAccount("root", "administer nodes", "revert all revisions", "delete all revisions")
	rev, err := store.LoadRevision(t.Context(), "e", 1)
	require.NoError(t, err)

	for _, op := range []entities.Operation{entities.OperationUpdate, entities.OperationDelete} {
		ok, err := evaluator.CheckAccess(t.Context(), rev, admin, op)
		require.NoError(t, err)
		assert.False(t, ok, "admin must be denied %s on the sole default revision", op)
	}
}

func TestAccessEvaluator_DraftSupportDisabled(t *testing.T) {
	store, generic := accessFixture(t)
	opts := DefaultOptions()
	opts.DraftSupport = false
	evaluator := NewAccessEvaluator(store, generic, nil, opts, nil)
	admin := entities.NewAccount("root", "administer nodes")

	current, err := store.LoadRevision(t.Context(), "e", 2)
	require.NoError(t, err)
	ok, err := evaluator.CheckAccess(t.Context(), current, admin, entities.OperationDelete)
	require.NoError(t, err)
	assert.False(t, ok)

	old, err := store.LoadRevision(t.Context(), "e", 1)
	require.NoError(t, err)
	ok, err = evaluator.CheckAccess(t.Context(), old, admin, entities.OperationDelete)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccessEvaluator_CustomEntityKind(t *testing.T) {
	store, generic := accessFixture(t)
	opts := DefaultOptions()
	opts.EntityKind = "media"
	evaluator := NewAccessEvaluator(store, generic, nil, opts, nil)
	rev, err := store.LoadRevision(t.Context(), "e", 1)
	require.NoError(t, err)

	ok, err := evaluator.CheckAccess(t.Context(), rev, entities.NewAccount("u", "administer media"), entities.OperationUpdate)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = evaluator.CheckAccess(t.Context(), rev, entities.NewAccount("u", "administer nodes"), entities.OperationUpdate)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAccessEvaluator_UsesCache(t *testing.T) {
	store, generic := accessFixture(t)
	cache := mocks.NewAccessCache()
	evaluator := NewAccessEvaluator(store, generic, cache, DefaultOptions(), nil)
	user := entities.NewAccount("u", "revert all revisions")
	rev, err := store.LoadRevision(t.Context(), "e", 1)
	require.NoError(t, err)

	for range 3 {
		ok, err := evaluator.CheckAccess(t.Context(), rev, user, entities.OperationUpdate)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 1, cache.Misses)
	assert.Equal(t, 2, cache.Hits)
	assert.Equal(t, 2, generic.CallCount)

	// A different permission set is a different decision.
	_, err = evaluator.CheckAccess(t.Context(), rev, entities.NewAccount("u"), entities.OperationUpdate)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Misses)
}

func TestAccessEvaluator_StoreError(t *testing.T) {
	store, generic := accessFixture(t)
	rev, err := store.LoadRevision(t.Context(), "e", 1)
	require.NoError(t, err)
	store.FailOn["LoadEntity"] = errors.New("connection reset")
	evaluator := NewAccessEvaluator(store, generic, nil, DefaultOptions(), nil)

	_, err = evaluator.CheckAccess(t.Context(), rev, entities.NewAccount("u", "administer nodes"), entities.OperationDelete)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading entity")
}

func TestAccessEvaluator_NilPrincipal(t *testing.T) {
	store, generic := accessFixture(t)
	rev, err := store.LoadRevision(t.Context(), "e", 1)
	require.NoError(t, err)

	ok, err := NewAccessEvaluator(store, generic, nil, DefaultOptions(), nil).CheckAccess(t.Context(), rev, nil, entities.OperationView)
	require.NoError(t, err)
	assert.False(t, ok)
}
