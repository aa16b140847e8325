package ports

import (
	"context"

	"github.com/mindforge/mindforge-api/internal/core/domain"
)

// AdminService exposes role-gated user administration. The RBAC middleware
// rejects non-admin callers before these methods run; every method still
// re-checks actorRole as defense in depth and returns domain.ErrForbidden on
// a mismatch.
type AdminService interface {
	ListUsers(ctx context.Context, actorRole string, filter UserFilter) ([]*domain.User, error)
	GetUser(ctx context.Context, actorRole, id string) (*domain.User, error)
	SetRole(ctx context.Context, actorRole, id, role string) (*domain.User, error)
	Lock(ctx context.Context, actorRole, id string) (*domain.User, error)
	Unlock(ctx context.Context, actorRole, id string) (*domain.User, error)
	DeleteUser(ctx context.Context, actorRole, id string) error
}
