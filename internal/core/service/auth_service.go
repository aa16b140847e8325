package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindforge/mindforge-api/internal/core/domain"
	"github.com/mindforge/mindforge-api/internal/core/ports"
)

// AuthService orchestrates registration, login with account lockout, refresh
// token rotation, and self-service profile management.
type AuthService struct {
	users       ports.UserRepository
	tokens      ports.TokenService
	refresh     ports.RefreshTokenStore
	audit       ports.AuditSink
	log         zerolog.Logger
	maxAttempts int
	refreshTTL  time.Duration
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenService,
	refresh ports.RefreshTokenStore,
	audit ports.AuditSink,
	log zerolog.Logger,
	maxAttempts int,
	refreshTTL time.Duration,
) *AuthService {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		users:       users,
		tokens:      tokens,
		refresh:     refresh,
		audit:       audit,
		log:         log,
		maxAttempts: maxAttempts,
		refreshTTL:  refreshTTL,
	}
}

// Register creates a new account with role USER. The password must satisfy
// the strength policy and is bcrypt-hashed before it ever reaches the
// repository.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		AvatarURL:    in.AvatarURL,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", username).Msg("user registered")
	s.record(username, ports.AuditRegister, "")
	return created, nil
}

// Login authenticates a user and issues an access/refresh token pair.
//
// A locked account fails before the password is even compared. A wrong
// password increments the failed-login counter atomically; reaching the
// threshold locks the account, and only an admin unlock clears that state.
// A successful login resets the counter to zero.
func (s *AuthService) Login(ctx context.Context, username, password string) (ports.TokenPair, *domain.User, error) {
	if username == "" || password == "" {
		return ports.TokenPair{}, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return ports.TokenPair{}, nil, domain.ErrInvalidCredentials
		}
		return ports.TokenPair{}, nil, err
	}

	if user.AccountLocked {
		s.log.Warn().Str("username", username).Msg("login rejected: account locked")
		return ports.TokenPair{}, nil, domain.ErrAccountLocked
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		updated, recErr := s.users.RecordFailedLogin(ctx, username, s.maxAttempts)
		if recErr != nil {
			return ports.TokenPair{}, nil, recErr
		}
		s.log.Warn().
			Str("username", username).
			Int("attempts", updated.FailedLoginAttempts).
			Int("max_attempts", s.maxAttempts).
			Msg("login failed: bad password")
		s.record(username, ports.AuditLoginFailed,
			fmt.Sprintf("attempt %d/%d", updated.FailedLoginAttempts, s.maxAttempts))
		if updated.AccountLocked {
			s.log.Warn().Str("username", username).Msg("account locked after repeated failures")
			s.record(username, ports.AuditAccountLocked, "")
		}
		return ports.TokenPair{}, nil, domain.ErrInvalidCredentials
	}

	if err := s.users.ResetFailedLogins(ctx, username); err != nil {
		return ports.TokenPair{}, nil, err
	}

	pair, err := s.issueTokens(ctx, user.Username, user.Role)
	if err != nil {
		return ports.TokenPair{}, nil, err
	}

	s.log.Info().Str("username", username).Msg("login successful")
	s.record(username, ports.AuditLogin, "")
	return pair, user, nil
}

// Refresh consumes a refresh token and issues a fresh pair. The consumed
// token is gone after this call whether or not the rest succeeds, so a stolen
// old token cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (ports.TokenPair, string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return ports.TokenPair{}, "", domain.ErrInvalidRefreshToken
	}

	username, err := s.refresh.Consume(ctx, refreshToken)
	if err != nil {
		return ports.TokenPair{}, "", err
	}

	// Reload the user so role changes and lockouts apply from the next
	// access token onward.
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return ports.TokenPair{}, "", domain.ErrInvalidRefreshToken
		}
		return ports.TokenPair{}, "", err
	}
	if user.AccountLocked {
		return ports.TokenPair{}, "", domain.ErrAccountLocked
	}

	pair, err := s.issueTokens(ctx, user.Username, user.Role)
	if err != nil {
		return ports.TokenPair{}, "", err
	}

	s.record(username, ports.AuditTokenRefresh, "")
	return pair, user.Username, nil
}

// Me loads the caller's account fresh from the store. The role in the access
// token is a cache; this endpoint reports the authoritative state.
func (s *AuthService) Me(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// UpdateProfile mutates the caller's mutable profile fields. Username and
// role cannot be changed through this path; a new password goes through the
// same strength policy as registration.
func (s *AuthService) UpdateProfile(ctx context.Context, username string, in ports.ProfileInput) (*domain.User, error) {
	update := ports.ProfileUpdate{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		AvatarURL: in.AvatarURL,
	}

	if in.Password != nil && strings.TrimSpace(*in.Password) != "" {
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashed := string(hash)
		update.PasswordHash = &hashed
	}

	user, err := s.users.UpdateProfile(ctx, username, update)
	if err != nil {
		return nil, err
	}

	s.record(username, ports.AuditProfileUpdate, "")
	return user, nil
}

// DeleteAccount removes the caller's own account. identity must match the
// target username; deleting someone else is an admin operation.
func (s *AuthService) DeleteAccount(ctx context.Context, identity, username string) error {
	if identity != username {
		return domain.ErrForbidden
	}
	if err := s.users.DeleteByUsername(ctx, username); err != nil {
		return err
	}
	s.log.Info().Str("username", username).Msg("account deleted by owner")
	s.record(username, ports.AuditAccountDelete, "")
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, username, role string) (ports.TokenPair, error) {
	access, err := s.tokens.IssueAccess(username, role)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh()
	if err != nil {
		return ports.TokenPair{}, err
	}
	if err := s.refresh.Save(ctx, refresh, username, s.refreshTTL); err != nil {
		return ports.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) record(username, action, detail string) {
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
