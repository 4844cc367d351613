package tokencache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisRevocationStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisRevocationStore(client), mr
}

func TestMarkAndCheckRevoked(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.MarkRevoked(ctx, "tok-1", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMarkRevoked_EntryExpiresWithToken(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.MarkRevoked(ctx, "tok-1", time.Now().Add(30*time.Minute)))

	mr.FastForward(31 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

// A token whose natural expiry has already passed still gets a short TTL so
// concurrent validators see the flag.
func TestMarkRevoked_PastExpiry(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.MarkRevoked(ctx, "tok-1", time.Now().Add(-time.Minute)))

	revoked, err := store.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
