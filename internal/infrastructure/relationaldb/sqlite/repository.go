// Package sqlite provides a SQLite implementation of the RevisionStore interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/ports"
	"github.com/ersonp/revmod/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository implements ports.RevisionStore using SQLite.
type Repository struct {
	queries
	db   *sql.DB
	path string
}

var (
	_ ports.RevisionStore = (*Repository)(nil)
	_ ports.RelationalDB  = (*Repository)(nil)
)

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// One connection: ":memory:" databases are per-connection, and it
	// serializes every transaction in the process.
	db.SetMaxOpenConns(1)

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	repo := NewRepositoryFromDB(db)
	repo.path = cfg.Path
	return repo, nil
}

// NewRepositoryFromDB wraps an open database. The caller is responsible for
// driver settings; the schema is created by EnsureSchema.
func NewRepositoryFromDB(db *sql.DB) *Repository {
	return &Repository{
		queries: queries{q: db},
		db:      db,
	}
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Entities (versioned content items)
	CREATE TABLE IF NOT EXISTS entities (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		language TEXT NOT NULL,
		default_revision_id INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_entities_created ON entities(created_at);

	-- Revisions (immutable snapshots; only published and is_default change)
	CREATE TABLE IF NOT EXISTS revisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_id TEXT NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		author_id TEXT NOT NULL DEFAULT '',
		language TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		log_message TEXT NOT NULL DEFAULT '',
		published INTEGER NOT NULL DEFAULT 0,
		is_default INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_revisions_entity ON revisions(entity_id, id);
	CREATE INDEX IF NOT EXISTS idx_revisions_language ON revisions(entity_id, language);
	-- At most one default revision per entity
	CREATE UNIQUE INDEX IF NOT EXISTS idx_revisions_default ON revisions(entity_id) WHERE is_default = 1;

	-- Audit log (tracks all transitions)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		entity_id TEXT,
		revision_id INTEGER,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log(entity_id);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// CreateEntity stores a new entity with its first revision as the default,
// and the optional audit entry, in one transaction.
func (r *Repository) CreateEntity(ctx context.Context, entity *entities.Entity, first entities.NewRevision, audit *entities.AuditEntry) (entities.RevisionID, error) {
	if entity.ID == "" {
		entity.ID = generateUUID()
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = timeNow()
	}
	if entity.Language == "" {
		entity.Language = entities.DefaultLanguage
	}

	var id entities.RevisionID
	err := r.inTx(ctx, func(q queries) error {
		query := `
			INSERT INTO entities (id, type, language, default_revision_id, created_at)
			VALUES (?, ?, ?, 0, ?)
		`
		if _, err := q.q.ExecContext(ctx, query, entity.ID, entity.Type, entity.Language, entity.CreatedAt); err != nil {
			return fmt.Errorf("saving entity: %w", err)
		}

		first.IsDefault = true
		var err error
		id, err = q.CreateRevision(ctx, entity.ID, first)
		if err != nil {
			return err
		}

		if audit == nil {
			return nil
		}
		entry := *audit
		entry.EntityID = entity.ID
		entry.RevisionID = id
		return q.LogAction(ctx, entry)
	})
	if err != nil {
		return entities.NoRevision, err
	}

	entity.DefaultRevisionID = id
	return id, nil
}

// ListEntities lists entities ordered by creation time.
func (r *Repository) ListEntities(ctx context.Context, limit, offset int) ([]entities.Entity, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT id, type, language, default_revision_id, created_at
		FROM entities
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	result := make([]entities.Entity, 0, 16)
	for rows.Next() {
		var e entities.Entity
		if err := rows.Scan(&e.ID, &e.Type, &e.Language, &e.DefaultRevisionID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning entity: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// FindAuditLog finds audit log entries for an entity, oldest first.
func (r *Repository) FindAuditLog(ctx context.Context, entityID string) ([]entities.AuditEntry, error) {
	query := `
		SELECT id, action, entity_id, revision_id, details, created_at
		FROM audit_log
		WHERE entity_id = ?
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		var entity, details sql.NullString
		var revisionID sql.NullInt64

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entity,
			&revisionID,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.EntityID = entity.String
		entry.RevisionID = entities.RevisionID(revisionID.Int64)

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// WithinEntity runs fn inside a database transaction. The single connection
// serializes transactions, so default-flag mutations never interleave.
func (r *Repository) WithinEntity(ctx context.Context, entityID string, fn func(ctx context.Context, tx ports.RevisionTx) error) error {
	return r.inTx(ctx, func(q queries) error {
		return fn(ctx, q)
	})
}

func (r *Repository) inTx(ctx context.Context, fn func(q queries) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
			}
		}
	}()

	if err = fn(queries{q: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
