package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mindforge/mindforge-api/internal/core/domain"
	"github.com/mindforge/mindforge-api/internal/core/ports"
)

const refreshTokenBytes = 48

// TokenService signs and verifies HS256 access tokens and mints opaque
// refresh tokens. The signing secret is injected once at construction and
// never rotated at runtime.
type TokenService struct {
	secret    []byte
	accessTTL time.Duration
}

func NewTokenService(secret string, accessTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	return &TokenService{secret: []byte(secret), accessTTL: accessTTL}
}

// IssueAccess returns a signed JWT carrying the username as subject and the
// role as a claim-time snapshot.
func (s *TokenService) IssueAccess(username, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// IssueRefresh returns an opaque random token. The caller is responsible for
// registering it with a RefreshTokenStore; the token itself carries no claims.
func (s *TokenService) IssueRefresh() (string, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Verify parses and validates an access token. It never panics on untrusted
// input: expiry yields domain.ErrTokenExpired, everything else that fails the
// structural or signature checks yields domain.ErrTokenMalformed.
func (s *TokenService) Verify(token string) (ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ports.TokenClaims{}, domain.ErrTokenExpired
		}
		return ports.TokenClaims{}, domain.ErrTokenMalformed
	}
	if !parsed.Valid {
		return ports.TokenClaims{}, domain.ErrTokenMalformed
	}

	username, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if username == "" || role == "" {
		return ports.TokenClaims{}, domain.ErrTokenMalformed
	}

	return ports.TokenClaims{Username: username, Role: role}, nil
}
