package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindforge/mindforge-api/internal/core/domain"
	"github.com/mindforge/mindforge-api/internal/core/ports"
)

// AdminService implements role-gated user administration. The RBAC middleware
// already filters non-admin callers; each method re-checks the actor role as
// defense in depth.
type AdminService struct {
	users ports.UserRepository
	audit ports.AuditSink
	log   zerolog.Logger
}

func NewAdminService(users ports.UserRepository, audit ports.AuditSink, log zerolog.Logger) *AdminService {
	return &AdminService{users: users, audit: audit, log: log}
}

func (s *AdminService) ListUsers(ctx context.Context, actorRole string, filter ports.UserFilter) ([]*domain.User, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}
	return s.users.List(ctx, filter)
}

func (s *AdminService) GetUser(ctx context.Context, actorRole, id string) (*domain.User, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *AdminService) SetRole(ctx context.Context, actorRole, id, role string) (*domain.User, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	user, err := s.users.SetRole(ctx, id, role)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Str("role", role).Msg("user role updated")
	s.record(user.Username, ports.AuditAdminRole, role)
	return user, nil
}

func (s *AdminService) Lock(ctx context.Context, actorRole, id string) (*domain.User, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}

	user, err := s.users.SetLocked(ctx, id, true)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("user account locked by admin")
	s.record(user.Username, ports.AuditAdminLock, "")
	return user, nil
}

// Unlock clears the lock flag and resets the failed-login counter, otherwise
// the next bad password would immediately re-lock the account.
func (s *AdminService) Unlock(ctx context.Context, actorRole, id string) (*domain.User, error) {
	if err := requireAdmin(actorRole); err != nil {
		return nil, err
	}

	user, err := s.users.SetLocked(ctx, id, false)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("user account unlocked by admin")
	s.record(user.Username, ports.AuditAdminUnlock, "")
	return user, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, actorRole, id string) error {
	if err := requireAdmin(actorRole); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("username", user.Username).Msg("user deleted by admin")
	s.record(user.Username, ports.AuditAdminDelete, "")
	return nil
}

func requireAdmin(actorRole string) error {
	if actorRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}

func (s *AdminService) record(username, action, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ports.AuditEvent{
		Username:  username,
		Action:    action,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}
