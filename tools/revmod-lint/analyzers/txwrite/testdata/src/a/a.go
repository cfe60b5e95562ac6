package a

import "context"

type RevisionTx interface {
	CreateRevision(ctx context.Context, entityID string) (int64, error)
	SetRevisionFlags(ctx context.Context, id int64, isDefault bool) error
	DeleteRevision(ctx context.Context, id int64) error
}

type RevisionStore interface {
	RevisionTx
	WithinEntity(ctx context.Context, entityID string, fn func(ctx context.Context, tx RevisionTx) error) error
}

// Repository is concrete; only the interface is checked.
type Repository struct{}

func (Repository) DeleteRevision(context.Context, int64) error { return nil }

func bad(ctx context.Context, store RevisionStore) {
	store.CreateRevision(ctx, "e")        // want "CreateRevision called on RevisionStore"
	store.SetRevisionFlags(ctx, 1, false) // want "SetRevisionFlags called on RevisionStore"
	_ = store.DeleteRevision(ctx, 2)      // want "DeleteRevision called on RevisionStore"
}

func good(ctx context.Context, store RevisionStore, repo Repository) error {
	_ = repo.DeleteRevision(ctx, 3)
	return store.WithinEntity(ctx, "e", func(ctx context.Context, tx RevisionTx) error {
		if err := tx.SetRevisionFlags(ctx, 1, false); err != nil {
			return err
		}
		_, err := tx.CreateRevision(ctx, "e")
		return err
	})
}
