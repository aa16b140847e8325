package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mindforge/mindforge-api/internal/core/domain"
)

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.IssueAccess("alice", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected username alice, got %q", claims.Username)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %q", domain.RoleAdmin, claims.Role)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("secret", time.Nanosecond)

	token, err := svc.IssueAccess("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := svc.Verify(token); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	if _, err := svc.Verify("not-a-token"); err != domain.ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed for garbage, got %v", err)
	}
	if _, err := svc.Verify(""); err != domain.ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed for empty token, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	other := NewTokenService("other-secret", time.Hour)
	token, err := other.IssueAccess("alice", domain.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess returned error: %v", err)
	}

	svc := NewTokenService("secret", time.Hour)
	if _, err := svc.Verify(token); err != domain.ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed for wrong signature, got %v", err)
	}
}

func TestTokenService_MissingClaims(t *testing.T) {
	// A structurally valid token without subject/role claims must be rejected.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := raw.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	svc := NewTokenService("secret", time.Hour)
	if _, err := svc.Verify(signed); err != domain.ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestTokenService_IssueRefresh(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	first, err := svc.IssueRefresh()
	if err != nil {
		t.Fatalf("IssueRefresh returned error: %v", err)
	}
	second, err := svc.IssueRefresh()
	if err != nil {
		t.Fatalf("IssueRefresh returned error: %v", err)
	}
	if len(first) != refreshTokenBytes*2 {
		t.Fatalf("unexpected refresh token length: %d", len(first))
	}
	if first == second {
		t.Fatalf("refresh tokens must be unique")
	}
}
