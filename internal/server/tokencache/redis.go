// Package tokencache provides a redis-backed cache of revoked token ids so
// token validation does not hit the database on the hot path. Entries carry
// a TTL matching the token's remaining lifetime: once a token has expired
// naturally, its revocation flag no longer matters.
package tokencache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:revoked:"

type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

// MarkRevoked flags the token id as revoked until its natural expiry.
func (s *RedisRevocationStore) MarkRevoked(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		ttl = time.Hour
	}
	return s.client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether the token id has been flagged revoked.
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
