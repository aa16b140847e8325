package ports

import (
	"context"

	"github.com/mindforge/mindforge-api/internal/core/domain"
)

// ProjectUpdate carries the mutable project fields. Nil Public preserves the
// stored visibility.
type ProjectUpdate struct {
	Name        string
	Description string
	Public      *bool
}

type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	FindByID(ctx context.Context, id string) (*domain.Project, error)
	ListAll(ctx context.Context) ([]*domain.Project, error)
	ListPublic(ctx context.Context) ([]*domain.Project, error)
	ListByOwner(ctx context.Context, ownerUsername string) ([]*domain.Project, error)
	Update(ctx context.Context, id string, update ProjectUpdate) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}
