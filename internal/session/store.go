package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "session:revoked:"

// Store tracks revoked tokens in Redis. JWTs are stateless, so logout works
// by recording the token until its natural expiry; the auth middleware
// rejects any token found here.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Revoke records a token as logged out. ttl should be the remaining lifetime
// of the token; non-positive ttl means the token is already expired and there
// is nothing to record.
func (s *Store) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := revokedKeyPrefix + token
	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a token has been logged out. Redis errors are
// treated as not-revoked so that a cache outage does not lock everyone out.
func (s *Store) IsRevoked(ctx context.Context, token string) bool {
	n, err := s.client.Exists(ctx, revokedKeyPrefix+token).Result()
	if err != nil {
		return false
	}
	return n > 0
}
