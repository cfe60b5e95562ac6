// Package entities contains core domain data structures.
package entities

import "time"

// DefaultLanguage is used when an entity is created without a language.
const DefaultLanguage = "en"

// Entity is a versioned content item. Its identity is stable across all of its
// revisions; DefaultRevisionID tracks the revision currently treated as canonical.
type Entity struct {
	ID                string     `json:"id"`
	Type              string     `json:"type"`
	Language          string     `json:"language"`
	DefaultRevisionID RevisionID `json:"default_revision_id"`
	CreatedAt         time.Time  `json:"created_at"`
}

// NewEntity describes an entity to create together with its first revision.
type NewEntity struct {
	Type       string
	Language   string
	AuthorID   string
	Content    Content
	LogMessage string
	Published  bool
}
