package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mindforge/mindforge-api/internal/core/domain"
	"github.com/mindforge/mindforge-api/internal/core/ports"
)

func seedUser(t *testing.T, repo *stubUserRepo, username, role string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{
		Username:     username,
		PasswordHash: "x",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func TestAdminService_RequiresAdminRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAdminService(repo, &recordingSink{}, zerolog.Nop())
	target := seedUser(t, repo, "alice", domain.RoleUser)

	ctx := context.Background()
	if _, err := svc.ListUsers(ctx, domain.RoleUser, ports.UserFilter{}); err != domain.ErrForbidden {
		t.Fatalf("ListUsers: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.GetUser(ctx, domain.RoleUser, target.ID); err != domain.ErrForbidden {
		t.Fatalf("GetUser: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.SetRole(ctx, domain.RoleUser, target.ID, domain.RoleAdmin); err != domain.ErrForbidden {
		t.Fatalf("SetRole: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Lock(ctx, "", target.ID); err != domain.ErrForbidden {
		t.Fatalf("Lock: expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteUser(ctx, domain.RoleUser, target.ID); err != domain.ErrForbidden {
		t.Fatalf("DeleteUser: expected ErrForbidden, got %v", err)
	}
}

func TestAdminService_ListUsers_Filter(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAdminService(repo, &recordingSink{}, zerolog.Nop())
	seedUser(t, repo, "alice", domain.RoleUser)
	seedUser(t, repo, "alfred", domain.RoleAdmin)
	seedUser(t, repo, "bob", domain.RoleUser)

	users, err := svc.ListUsers(context.Background(), domain.RoleAdmin, ports.UserFilter{Search: "al"})
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 matches for search 'al', got %d", len(users))
	}

	users, err = svc.ListUsers(context.Background(), domain.RoleAdmin, ports.UserFilter{Search: "al", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 || users[0].Username != "alfred" {
		t.Fatalf("unexpected filtered result: %+v", users)
	}
}

func TestAdminService_SetRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAdminService(repo, &recordingSink{}, zerolog.Nop())
	target := seedUser(t, repo, "alice", domain.RoleUser)

	updated, err := svc.SetRole(context.Background(), domain.RoleAdmin, target.ID, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("SetRole failed: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected role ADMIN, got %s", updated.Role)
	}

	if _, err := svc.SetRole(context.Background(), domain.RoleAdmin, target.ID, "SUPERUSER"); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.SetRole(context.Background(), domain.RoleAdmin, "missing", domain.RoleUser); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminService_LockUnlock(t *testing.T) {
	repo := newStubUserRepo()
	sink := &recordingSink{}
	svc := NewAdminService(repo, sink, zerolog.Nop())
	target := seedUser(t, repo, "alice", domain.RoleUser)

	locked, err := svc.Lock(context.Background(), domain.RoleAdmin, target.ID)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}
	if !locked.AccountLocked {
		t.Fatalf("expected account locked")
	}

	// Simulate the failures that normally precede an admin unlock.
	for i := 0; i < 5; i++ {
		_, _ = repo.RecordFailedLogin(context.Background(), "alice", 5)
	}

	unlocked, err := svc.Unlock(context.Background(), domain.RoleAdmin, target.ID)
	if err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}
	if unlocked.AccountLocked {
		t.Fatalf("expected account unlocked")
	}
	if unlocked.FailedLoginAttempts != 0 {
		t.Fatalf("unlock must reset the failed-login counter, got %d", unlocked.FailedLoginAttempts)
	}
}

func TestAdminService_DeleteUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAdminService(repo, &recordingSink{}, zerolog.Nop())
	target := seedUser(t, repo, "alice", domain.RoleUser)

	if err := svc.DeleteUser(context.Background(), domain.RoleAdmin, target.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), domain.RoleAdmin, target.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
