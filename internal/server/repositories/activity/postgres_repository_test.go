package activity

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestMessagesReceivedSince(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	since := time.Now().Add(-time.Hour)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM messages\s+WHERE to_account_id = \$1 AND to_visible AND NOT muted`).
		WithArgs(int64(7), since).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.MessagesReceivedSince(context.Background(), 7, since)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestFollowsReceivedSince(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	since := time.Now().Add(-time.Hour)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM follows\s+WHERE following_id = \$1`).
		WithArgs(int64(7), since).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.FollowsReceivedSince(context.Background(), 7, since)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
