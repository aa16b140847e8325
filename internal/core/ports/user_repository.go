package ports

import (
	"context"

	"github.com/mindforge/mindforge-api/internal/core/domain"
)

// UserFilter narrows List results. Zero values mean "no filter".
type UserFilter struct {
	// Search matches a case-insensitive substring of the username.
	Search string
	// Role restricts results to a single role.
	Role string
}

// ProfileUpdate carries the mutable profile fields. Nil pointers leave the
// stored value untouched; username and role are deliberately absent.
type ProfileUpdate struct {
	Email        *string
	FirstName    *string
	LastName     *string
	AvatarURL    *string
	PasswordHash *string
}

// UserRepository defines the persistence contract for user accounts.
//
// RecordFailedLogin must increment the failed-login counter and flip the lock
// flag when the counter reaches threshold in a single atomic operation, so
// concurrent login attempts against one account never lose updates, even
// across multiple server instances.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, username string, update ProfileUpdate) (*domain.User, error)
	RecordFailedLogin(ctx context.Context, username string, threshold int) (*domain.User, error)
	ResetFailedLogins(ctx context.Context, username string) error
	SetLocked(ctx context.Context, id string, locked bool) (*domain.User, error)
	SetRole(ctx context.Context, id, role string) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	DeleteByUsername(ctx context.Context, username string) error
}
