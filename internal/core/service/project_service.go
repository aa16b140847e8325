package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindforge/mindforge-api/internal/core/domain"
	"github.com/mindforge/mindforge-api/internal/core/ports"
)

// ProjectService implements user-owned project management. Reads are open to
// any authenticated caller; mutations require ownership.
type ProjectService struct {
	projects ports.ProjectRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewProjectService(projects ports.ProjectRepository, users ports.UserRepository, log zerolog.Logger) *ProjectService {
	return &ProjectService{projects: projects, users: users, log: log}
}

func (s *ProjectService) ListAll(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.ListAll(ctx)
}

func (s *ProjectService) ListPublic(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.ListPublic(ctx)
}

func (s *ProjectService) ListByOwner(ctx context.Context, username string) ([]*domain.Project, error) {
	// The owner must still exist; a dangling token should not fabricate an
	// empty result for a deleted account.
	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, err
	}
	return s.projects.ListByOwner(ctx, username)
}

func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.FindByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, username string, in ports.ProjectInput) (*domain.Project, error) {
	owner, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	public := false
	if in.Public != nil {
		public = *in.Public
	}

	now := time.Now().UTC()
	project := &domain.Project{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		OwnerID:       owner.ID,
		OwnerUsername: owner.Username,
		Public:        public,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.projects.Create(ctx, project)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("project", created.Name).Str("owner", username).Msg("project created")
	return created, nil
}

func (s *ProjectService) Update(ctx context.Context, username, id string, in ports.ProjectInput) (*domain.Project, error) {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.OwnerUsername != username {
		return nil, domain.ErrForbidden
	}

	return s.projects.Update(ctx, id, ports.ProjectUpdate{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Public:      in.Public,
	})
}

func (s *ProjectService) Delete(ctx context.Context, username, id string) error {
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if project.OwnerUsername != username {
		return domain.ErrForbidden
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("project", project.Name).Str("owner", username).Msg("project deleted")
	return nil
}
