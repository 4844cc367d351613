package models

import "time"

// Changeset is an edit session grouping map data modifications. Only the
// fields the trust engine reads are modelled here; geometry and tags live
// with the editing API.
type Changeset struct {
	ID        int64
	AccountID int64
	CreatedAt time.Time
	ClosedAt  *time.Time
	NumChanges int
}

// Closed reports whether the changeset has been closed at the given time.
func (c *Changeset) Closed(now time.Time) bool {
	return c.ClosedAt != nil && !c.ClosedAt.After(now)
}

// ChangesetComment is a discussion comment on a changeset.
type ChangesetComment struct {
	ID          int64
	ChangesetID int64
	AuthorID    int64
	Body        string
	CreatedAt   time.Time
}
