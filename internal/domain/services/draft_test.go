package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/mocks"
)

func TestResolveDraft(t *testing.T) {
	tests := []struct {
		name    string
		current entities.RevisionID
		ids     []entities.RevisionID
		want    entities.RevisionID
	}{
		{"no revisions", 0, nil, entities.NoRevision},
		{"only default", 100, []entities.RevisionID{100}, entities.NoRevision},
		{"one draft", 100, []entities.RevisionID{100, 101}, 101},
		{"newest of several drafts", 100, []entities.RevisionID{100, 101, 102, 105}, 105},
		{"older revisions ignored", 103, []entities.RevisionID{100, 101, 102, 103}, entities.NoRevision},
		{"unsorted input", 5, []entities.RevisionID{9, 2, 7, 5}, 9},
		{"no default", entities.NoRevision, []entities.RevisionID{3, 1}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDraft(tt.current, tt.ids))
		})
	}
}

func TestResolveDraft_DoesNotMutateInput(t *testing.T) {
	ids := []entities.RevisionID{9, 2, 7, 5}
	ResolveDraft(5, ids)
	assert.Equal(t, []entities.RevisionID{9, 2, 7, 5}, ids)
}

func TestDraftResolver(t *testing.T) {
	store := mocks.NewRevisionStore()
	entity := store.Seed(entities.Entity{ID: "e1", Type: "article"},
		entities.Revision{ID: 100, Published: true, IsDefault: true},
		entities.Revision{ID: 101},
	)
	resolver := NewDraftResolver(store)

	id, err := resolver.DraftRevisionID(t.Context(), entity)
	require.NoError(t, err)
	assert.Equal(t, entities.RevisionID(101), id)

	has, err := resolver.HasDraft(t.Context(), entity)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestDraftResolver_NoRevisions(t *testing.T) {
	store := mocks.NewRevisionStore()
	entity := store.Seed(entities.Entity{ID: "empty", Type: "article"})

	has, err := NewDraftResolver(store).HasDraft(t.Context(), entity)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestDraftResolver_StoreError(t *testing.T) {
	store := mocks.NewRevisionStore()
	entity := store.Seed(entities.Entity{ID: "e1", Type: "article"},
		entities.Revision{ID: 1, IsDefault: true},
	)
	store.FailOn["ListRevisionIDs"] = errors.New("disk gone")

	_, err := NewDraftResolver(store).DraftRevisionID(t.Context(), entity)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing revision ids")
}
