package sqlite_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/services"
	"github.com/ersonp/revmod/internal/infrastructure/config"
	"github.com/ersonp/revmod/internal/infrastructure/relationaldb/sqlite"
)

// newModeration runs the moderation services on a file-backed database.
func newModeration(t *testing.T) (*services.Moderation, *services.EntityService, *sqlite.Repository) {
	t.Helper()
	repo, err := sqlite.NewRepository(config.SQLiteConfig{Path: t.TempDir() + "/revmod.db"})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.EnsureSchema(t.Context()))

	return services.NewModeration(repo, nil, nil, services.DefaultOptions(), nil),
		services.NewEntityService(repo, nil),
		repo
}

func defaultIDs(t *testing.T, repo *sqlite.Repository, entityID string) []entities.RevisionID {
	t.Helper()
	revs, err := repo.ListRevisions(t.Context(), entityID)
	require.NoError(t, err)
	var ids []entities.RevisionID
	for _, rev := range revs {
		if rev.IsDefault {
			ids = append(ids, rev.ID)
		}
	}
	return ids
}

func TestModerationOnSQLite_DraftThenPublish(t *testing.T) {
	moderation, entityService, repo := newModeration(t)
	ctx := t.Context()

	entity, err := entityService.Create(ctx, entities.NewEntity{
		Type:      "article",
		AuthorID:  "alice",
		Content:   entities.Content{Title: "v1"},
		Published: true,
	})
	require.NoError(t, err)
	first := entity.DefaultRevisionID

	draft, err := moderation.ResolveSubmission(ctx, entity, services.Submission{
		Action:   entities.ActionSaveAsDraft,
		Content:  &entities.Content{Title: "v2"},
		AuthorID: "alice",
	})
	require.NoError(t, err)

	entity, err = entityService.Get(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, first, entity.DefaultRevisionID)
	hasDraft, err := moderation.HasDraft(ctx, entity)
	require.NoError(t, err)
	assert.True(t, hasDraft)

	published, err := moderation.ResolveSubmission(ctx, entity, services.Submission{Action: entities.ActionSaveAndPublish})
	require.NoError(t, err)
	assert.Equal(t, draft, published, "publishing without content promotes the draft")

	entity, err = entityService.Get(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, draft, entity.DefaultRevisionID)
	assert.Equal(t, []entities.RevisionID{draft}, defaultIDs(t, repo, entity.ID))

	current, err := entityService.Revision(ctx, entity.ID, draft)
	require.NoError(t, err)
	assert.True(t, current.Published)
	assert.Equal(t, "v2", current.Content.Title)
}

func TestModerationOnSQLite_DeleteDefaultPromotesDraft(t *testing.T) {
	moderation, entityService, repo := newModeration(t)
	ctx := t.Context()

	entity, err := entityService.Create(ctx, entities.NewEntity{Type: "article", Content: entities.Content{Title: "v1"}, Published: true})
	require.NoError(t, err)
	first := entity.DefaultRevisionID
	draft, err := moderation.ResolveSubmission(ctx, entity, services.Submission{Action: entities.ActionSaveAsDraft})
	require.NoError(t, err)

	result, err := moderation.ApplyDelete(ctx, entity, first)
	require.NoError(t, err)
	assert.Equal(t, first, result.Deleted)
	assert.Equal(t, draft, result.Promoted)
	assert.Equal(t, []entities.RevisionID{draft}, defaultIDs(t, repo, entity.ID))

	_, err = entityService.Revision(ctx, entity.ID, first)
	require.ErrorIs(t, err, entities.ErrNotFound)

	history, err := entityService.History(ctx, entity.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, entities.ActionRevisionDelete, history[2].Action)
}

func TestModerationOnSQLite_ConcurrentSubmissions(t *testing.T) {
	moderation, entityService, repo := newModeration(t)
	ctx := t.Context()

	entity, err := entityService.Create(ctx, entities.NewEntity{Type: "article", Content: entities.Content{Title: "v1"}, Published: true})
	require.NoError(t, err)

	actions := []entities.SubmitAction{
		entities.ActionSaveAsDraft,
		entities.ActionSaveAndPublish,
		entities.ActionSaveDefault,
		entities.ActionSaveAndUnpublish,
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := moderation.ResolveSubmission(ctx, entity, services.Submission{
				Action:  actions[i%len(actions)],
				Content: &entities.Content{Title: fmt.Sprintf("edit %d", i)},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Len(t, defaultIDs(t, repo, entity.ID), 1)

	revs, err := repo.ListRevisions(ctx, entity.ID)
	require.NoError(t, err)
	assert.Len(t, revs, 21)
}

func TestModerationOnSQLite_AccessProtectsSoleRevision(t *testing.T) {
	moderation, entityService, _ := newModeration(t)
	ctx := t.Context()

	entity, err := entityService.Create(ctx, entities.NewEntity{Type: "article", Content: entities.Content{Title: "v1"}, Published: true})
	require.NoError(t, err)
	rev, err := entityService.Revision(ctx, entity.ID, entity.DefaultRevisionID)
	require.NoError(t, err)

	admin := entities.NewAccount("root", "administer nodes")
	for _, op := range []entities.Operation{entities.OperationUpdate, entities.OperationDelete} {
		allowed, err := moderation.CheckAccess(ctx, rev, admin, op)
		require.NoError(t, err)
		assert.False(t, allowed, op)
	}
}
