package ports

import (
	"context"

	"github.com/mindforge/mindforge-api/internal/core/domain"
)

// RegisterInput is the payload accepted by registration. Everything beyond
// username and password is optional profile data.
type RegisterInput struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// ProfileInput carries a partial profile mutation. Nil fields are left
// unchanged. A non-nil Password is re-validated and re-hashed.
type ProfileInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	AvatarURL *string
	Password  *string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (TokenPair, *domain.User, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error)
	Me(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, username string, in ProfileInput) (*domain.User, error)
	DeleteAccount(ctx context.Context, identity, username string) error
}
