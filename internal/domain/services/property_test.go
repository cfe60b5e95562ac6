package services

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/mocks"
)

// TestResolveDraftProperty checks that for revisions r1 < ... < rn with the
// default at rk, the draft is rn if n > k and none otherwise.
func TestResolveDraftProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("draft is the newest revision after the default", prop.ForAll(
		func(n, k int) bool {
			if k >= n {
				k = n - 1
			}
			ids := make([]entities.RevisionID, n)
			for i := range ids {
				ids[i] = entities.RevisionID(100 + i*3)
			}
			got := ResolveDraft(ids[k], ids)
			if k < n-1 {
				return got == ids[n-1]
			}
			return got == entities.NoRevision
		},
		gen.IntRange(1, 30),
		gen.IntRange(0, 29),
	))

	properties.TestingRun(t)
}

// TestSingleDefaultProperty runs random transition sequences and checks that
// exactly one revision is default after each of them.
func TestSingleDefaultProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("exactly one default revision after every transition", prop.ForAll(
		func(steps []int) bool {
			ctx := context.Background()
			store := mocks.NewRevisionStore()
			store.Seed(entities.Entity{ID: "p", Type: "article"},
				entities.Revision{ID: 1, Published: true, IsDefault: true},
			)
			engine := NewTransitionEngine(store, nil, nil)

			for _, step := range steps {
				ids := store.DefaultRevisions("p")
				if len(ids) != 1 {
					return false
				}
				all, err := store.ListRevisionIDs(ctx, "p")
				if err != nil {
					return false
				}
				pick := all[step%len(all)]

				switch step % 6 {
				case 0:
					_, err = engine.Submit(ctx, "p", Submission{Action: entities.ActionSaveAsDraft, Content: &entities.Content{Title: "d"}})
				case 1:
					_, err = engine.Submit(ctx, "p", Submission{Action: entities.ActionSaveAndPublish, Content: &entities.Content{Title: "p"}})
				case 2:
					_, err = engine.Submit(ctx, "p", Submission{Action: entities.ActionSaveAndPublish})
				case 3:
					_, err = engine.Submit(ctx, "p", Submission{Action: entities.ActionSaveAndUnpublish, Content: &entities.Content{Title: "u"}})
				case 4:
					_, err = engine.Revert(ctx, "p", pick, RevertOptions{})
				case 5:
					if len(all) > 1 {
						_, err = engine.Delete(ctx, "p", pick)
					}
				}
				if err != nil {
					return false
				}
				if len(store.DefaultRevisions("p")) != 1 {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(20, gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}
