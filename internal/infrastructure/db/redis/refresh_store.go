package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mindforge/mindforge-api/internal/core/domain"
)

// RefreshTokenStore implements ports.RefreshTokenStore on Redis.
//
// Only a SHA-256 digest of the token is stored, keyed
// refresh:<hex digest> with the owning username as value. Redis TTL
// expiry doubles as refresh-token expiry, and GETDEL makes rotation
// single-use even under concurrent refresh calls.
type RefreshTokenStore struct {
	client *redis.Client
}

func NewRefreshTokenStore(client *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{client: client}
}

// Save registers token for username until ttl elapses.
func (s *RefreshTokenStore) Save(ctx context.Context, token, username string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(token), username, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Consume atomically removes token and returns the username it was issued
// to. Unknown, expired, and already-consumed tokens are indistinguishable.
func (s *RefreshTokenStore) Consume(ctx context.Context, token string) (string, error) {
	username, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("consume refresh token: %w", err)
	}
	return username, nil
}

func (s *RefreshTokenStore) key(token string) string {
	digest := sha256.Sum256([]byte(token))
	return "refresh:" + hex.EncodeToString(digest[:])
}
