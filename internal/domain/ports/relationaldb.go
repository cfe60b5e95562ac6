package ports

import "context"

// RelationalDB is the lifecycle surface of the relational store, used when
// provisioning a workspace before any revision is written.
type RelationalDB interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
