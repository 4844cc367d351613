package models

import "time"

// Message is a private message between accounts. Only recipient-side
// visibility matters to the rate limiter.
type Message struct {
	ID            int64
	FromAccountID int64
	ToAccountID   int64
	Title         string
	Body          string
	SentOn        time.Time
	ToVisible     bool
	Muted         bool
}

// Follow is a directed follow edge between two accounts.
type Follow struct {
	FollowerID  int64
	FollowingID int64
	CreatedAt   time.Time
}

// DiaryEntry is a public journal post. Visible entries feed the spam scorer.
type DiaryEntry struct {
	ID        int64
	AccountID int64
	Title     string
	Body      string
	Visible   bool
	CreatedAt time.Time
}

// DiaryComment is a comment on a diary entry.
type DiaryComment struct {
	ID           int64
	DiaryEntryID int64
	AccountID    int64
	Body         string
	Visible      bool
	CreatedAt    time.Time
}
