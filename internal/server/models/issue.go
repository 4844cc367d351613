package models

import "time"

// Issue is a moderation case opened against an account. Reports attach to an
// issue; an issue stays "open" until a moderator resolves it.
type Issue struct {
	ID                int64
	ReportedAccountID int64
	Status            string // open, resolved
	ResolvedAt        *time.Time
	CreatedAt         time.Time
}

// Report is a single complaint filed by a reporter against an issue's
// subject account.
type Report struct {
	ID         int64
	IssueID    int64
	ReporterID int64
	Category   string // spam, offensive, threat, other
	Details    string
	UpdatedAt  time.Time
	CreatedAt  time.Time
}

const (
	IssueStatusOpen     = "open"
	IssueStatusResolved = "resolved"

	ReportCategorySpam = "spam"
)
