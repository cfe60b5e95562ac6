package entities

import "time"

// Audit actions recorded by the transition engine.
const (
	ActionEntityCreate    = "entity.create"
	ActionRevisionSubmit  = "revision.submit"
	ActionRevisionPublish = "revision.publish"
	ActionRevisionRevert  = "revision.revert"
	ActionRevisionDelete  = "revision.delete"
)

// AuditEntry represents a logged action in the system.
type AuditEntry struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	EntityID   string         `json:"entity_id"`
	RevisionID RevisionID     `json:"revision_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
