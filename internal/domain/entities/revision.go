package entities

import (
	"strconv"
	"time"
)

// RevisionID identifies a revision. Ids are strictly increasing within an
// entity's revision sequence and are never reused.
type RevisionID int64

// NoRevision means "none": zero is never assigned to a stored revision.
const NoRevision RevisionID = 0

// String returns the decimal form of the id.
func (id RevisionID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Content holds the editable fields of a revision.
type Content struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// Revision is an immutable snapshot of an entity. Only Published and IsDefault
// may change after creation.
type Revision struct {
	ID         RevisionID `json:"id"`
	EntityID   string     `json:"entity_id"`
	AuthorID   string     `json:"author_id"`
	Language   string     `json:"language"`
	Content    Content    `json:"content"`
	LogMessage string     `json:"log_message,omitempty"`
	Published  bool       `json:"published"`
	IsDefault  bool       `json:"is_default"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewRevision carries the fields of a revision to be created. The store
// assigns the id.
type NewRevision struct {
	AuthorID   string
	Language   string
	Content    Content
	LogMessage string
	Published  bool
	IsDefault  bool
	CreatedAt  time.Time
}

// RevisionFlags is a partial update of the mutable revision flags. Nil fields
// are left untouched.
type RevisionFlags struct {
	IsDefault *bool
	Published *bool
}

// SetDefault returns flags that only change IsDefault.
func SetDefault(v bool) RevisionFlags {
	return RevisionFlags{IsDefault: &v}
}

// SetPublished returns flags that only change Published.
func SetPublished(v bool) RevisionFlags {
	return RevisionFlags{Published: &v}
}

// Promote marks a revision default and published.
func Promote() RevisionFlags {
	t := true
	return RevisionFlags{IsDefault: &t, Published: &t}
}
