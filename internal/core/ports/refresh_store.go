package ports

import (
	"context"
	"time"
)

// RefreshTokenStore tracks outstanding refresh tokens so rotation actually
// invalidates the previous token. Tokens are opaque; implementations should
// persist a digest, never the token itself.
type RefreshTokenStore interface {
	// Save registers token for username until ttl elapses.
	Save(ctx context.Context, token, username string, ttl time.Duration) error
	// Consume atomically looks up and removes token, returning the username
	// it was issued to. An unknown or already-consumed token yields
	// domain.ErrInvalidRefreshToken.
	Consume(ctx context.Context, token string) (string, error)
}
