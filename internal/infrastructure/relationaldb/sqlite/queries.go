package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ersonp/revmod/internal/domain/entities"
	"github.com/ersonp/revmod/internal/domain/ports"
)

// queries holds the revision reads and writes shared by the repository and
// its transactions.
type queries struct {
	q querier
}

var _ ports.RevisionTx = queries{}

const revisionColumns = `id, entity_id, author_id, language, title, body, log_message, published, is_default, created_at`

// LoadEntity loads an entity by id.
func (s queries) LoadEntity(ctx context.Context, entityID string) (*entities.Entity, error) {
	query := `
		SELECT id, type, language, default_revision_id, created_at
		FROM entities
		WHERE id = ?
	`
	var e entities.Entity
	err := s.q.QueryRowContext(ctx, query, entityID).Scan(&e.ID, &e.Type, &e.Language, &e.DefaultRevisionID, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entity %s: %w", entityID, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning entity: %w", err)
	}
	return &e, nil
}

// ListRevisionIDs lists an entity's revision ids in ascending order.
func (s queries) ListRevisionIDs(ctx context.Context, entityID string) ([]entities.RevisionID, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT id FROM revisions WHERE entity_id = ? ORDER BY id ASC`, entityID)
	if err != nil {
		return nil, fmt.Errorf("querying revision ids: %w", err)
	}
	defer rows.Close()

	ids := make([]entities.RevisionID, 0, 16)
	for rows.Next() {
		var id entities.RevisionID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning revision id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListRevisions lists an entity's revisions in ascending id order.
func (s queries) ListRevisions(ctx context.Context, entityID string) ([]entities.Revision, error) {
	query := `SELECT ` + revisionColumns + ` FROM revisions WHERE entity_id = ? ORDER BY id ASC`
	rows, err := s.q.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, fmt.Errorf("querying revisions: %w", err)
	}
	defer rows.Close()

	revisions := make([]entities.Revision, 0, 16)
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, *rev)
	}
	return revisions, rows.Err()
}

// LoadRevision loads one revision of an entity.
func (s queries) LoadRevision(ctx context.Context, entityID string, id entities.RevisionID) (*entities.Revision, error) {
	query := `SELECT ` + revisionColumns + ` FROM revisions WHERE id = ? AND entity_id = ?`
	rev, err := scanRevision(s.q.QueryRowContext(ctx, query, id, entityID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("revision %d of entity %s: %w", id, entityID, entities.ErrNotFound)
	}
	return rev, err
}

// RevisionEntityID returns the id of the entity owning a revision.
func (s queries) RevisionEntityID(ctx context.Context, id entities.RevisionID) (string, error) {
	var entityID string
	err := s.q.QueryRowContext(ctx, `SELECT entity_id FROM revisions WHERE id = ?`, id).Scan(&entityID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("revision %d: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("scanning revision owner: %w", err)
	}
	return entityID, nil
}

// CountRevisionsInLanguage counts an entity's revisions in a language.
func (s queries) CountRevisionsInLanguage(ctx context.Context, entityID, language string) (int, error) {
	var count int
	err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revisions WHERE entity_id = ? AND language = ?`,
		entityID, language,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting revisions: %w", err)
	}
	return count, nil
}

// CreateRevision stores a new revision. A default revision also becomes the
// entity's DefaultRevisionID.
func (s queries) CreateRevision(ctx context.Context, entityID string, rev entities.NewRevision) (entities.RevisionID, error) {
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = timeNow()
	}
	if rev.Language == "" {
		entity, err := s.LoadEntity(ctx, entityID)
		if err != nil {
			return entities.NoRevision, err
		}
		rev.Language = entity.Language
	}

	query := `
		INSERT INTO revisions (entity_id, author_id, language, title, body, log_message, published, is_default, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.q.ExecContext(ctx, query,
		entityID,
		rev.AuthorID,
		rev.Language,
		rev.Content.Title,
		rev.Content.Body,
		rev.LogMessage,
		rev.Published,
		rev.IsDefault,
		rev.CreatedAt,
	)
	if err != nil {
		return entities.NoRevision, fmt.Errorf("saving revision: %w", err)
	}
	lastID, err := result.LastInsertId()
	if err != nil {
		return entities.NoRevision, fmt.Errorf("reading revision id: %w", err)
	}
	id := entities.RevisionID(lastID)

	if rev.IsDefault {
		if err := s.setEntityDefault(ctx, entityID, id); err != nil {
			return entities.NoRevision, err
		}
	}
	return id, nil
}

// SetRevisionFlags updates IsDefault and/or Published in place.
func (s queries) SetRevisionFlags(ctx context.Context, id entities.RevisionID, flags entities.RevisionFlags) error {
	if flags.IsDefault == nil && flags.Published == nil {
		return nil
	}

	entityID, err := s.RevisionEntityID(ctx, id)
	if err != nil {
		return err
	}

	if flags.Published != nil {
		if _, err := s.q.ExecContext(ctx, `UPDATE revisions SET published = ? WHERE id = ?`, *flags.Published, id); err != nil {
			return fmt.Errorf("updating published flag: %w", err)
		}
	}

	if flags.IsDefault != nil {
		if _, err := s.q.ExecContext(ctx, `UPDATE revisions SET is_default = ? WHERE id = ?`, *flags.IsDefault, id); err != nil {
			return fmt.Errorf("updating default flag: %w", err)
		}
		if *flags.IsDefault {
			return s.setEntityDefault(ctx, entityID, id)
		}
		_, err := s.q.ExecContext(ctx,
			`UPDATE entities SET default_revision_id = 0 WHERE id = ? AND default_revision_id = ?`,
			entityID, id,
		)
		if err != nil {
			return fmt.Errorf("clearing entity default: %w", err)
		}
	}
	return nil
}

// DeleteRevision permanently removes a revision.
func (s queries) DeleteRevision(ctx context.Context, id entities.RevisionID) error {
	result, err := s.q.ExecContext(ctx, `DELETE FROM revisions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting revision: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading deleted rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("revision %d: %w", id, entities.ErrNotFound)
	}
	return nil
}

// LogAction logs an action to the audit log.
func (s queries) LogAction(ctx context.Context, entry entities.AuditEntry) error {
	var detailsJSON sql.NullString
	if entry.Details != nil {
		data, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var entityID sql.NullString
	if entry.EntityID != "" {
		entityID = sql.NullString{String: entry.EntityID, Valid: true}
	}
	var revisionID sql.NullInt64
	if entry.RevisionID != entities.NoRevision {
		revisionID = sql.NullInt64{Int64: int64(entry.RevisionID), Valid: true}
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = timeNow()
	}

	query := `INSERT INTO audit_log (action, entity_id, revision_id, details, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.q.ExecContext(ctx, query, entry.Action, entityID, revisionID, detailsJSON, createdAt)
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

func (s queries) setEntityDefault(ctx context.Context, entityID string, id entities.RevisionID) error {
	_, err := s.q.ExecContext(ctx, `UPDATE entities SET default_revision_id = ? WHERE id = ?`, id, entityID)
	if err != nil {
		return fmt.Errorf("updating entity default: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRevision scans a row selected with revisionColumns. sql.ErrNoRows is
// returned unwrapped.
func scanRevision(row rowScanner) (*entities.Revision, error) {
	var rev entities.Revision
	err := row.Scan(
		&rev.ID,
		&rev.EntityID,
		&rev.AuthorID,
		&rev.Language,
		&rev.Content.Title,
		&rev.Content.Body,
		&rev.LogMessage,
		&rev.Published,
		&rev.IsDefault,
		&rev.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning revision: %w", err)
	}
	return &rev, nil
}
