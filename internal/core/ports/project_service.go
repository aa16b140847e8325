package ports

import (
	"context"

	"github.com/mindforge/mindforge-api/internal/core/domain"
)

// ProjectInput is the payload for creating or updating a project.
type ProjectInput struct {
	Name        string
	Description string
	Public      *bool
}

type ProjectService interface {
	ListAll(ctx context.Context) ([]*domain.Project, error)
	ListPublic(ctx context.Context) ([]*domain.Project, error)
	ListByOwner(ctx context.Context, username string) ([]*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, username string, in ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, username, id string, in ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, username, id string) error
}
