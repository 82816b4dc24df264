package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

func denylistKey(jti string) string { return "token:denylist:" + jti }

// TokenStore keeps the refresh-token revocation list in Redis. Entries
// expire together with the token they revoke, so the list never grows
// past the refresh TTL window.
type TokenStore struct {
	rdb *redis.Client
}

func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

// Revoke adds the token id to the denylist. Once Revoke returns, any
// subsequent IsRevoked check observes the entry.
func (s *TokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already expired; nothing to deny.
		return nil
	}
	return s.rdb.Set(ctx, denylistKey(jti), "1", ttl).Err()
}

func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, denylistKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
