package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mindforge/mindforge-api/internal/core/domain"
	"github.com/mindforge/mindforge-api/internal/core/ports"
)

type stubProjectRepo struct {
	projects map[string]*domain.Project
	seq      int
}

func newStubProjectRepo() *stubProjectRepo {
	return &stubProjectRepo{projects: make(map[string]*domain.Project)}
}

func cloneProject(p *domain.Project) *domain.Project {
	clone := *p
	return &clone
}

func (r *stubProjectRepo) Create(_ context.Context, project *domain.Project) (*domain.Project, error) {
	copy := cloneProject(project)
	r.seq++
	copy.ID = fmt.Sprintf("p%d", r.seq)
	r.projects[copy.ID] = copy
	return cloneProject(copy), nil
}

func (r *stubProjectRepo) FindByID(_ context.Context, id string) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	return cloneProject(p), nil
}

func (r *stubProjectRepo) ListAll(_ context.Context) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		out = append(out, cloneProject(p))
	}
	return out, nil
}

func (r *stubProjectRepo) ListPublic(_ context.Context) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		if p.Public {
			out = append(out, cloneProject(p))
		}
	}
	return out, nil
}

func (r *stubProjectRepo) ListByOwner(_ context.Context, owner string) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.projects {
		if p.OwnerUsername == owner {
			out = append(out, cloneProject(p))
		}
	}
	return out, nil
}

func (r *stubProjectRepo) Update(_ context.Context, id string, update ports.ProjectUpdate) (*domain.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrProjectNotFound
	}
	p.Name = update.Name
	p.Description = update.Description
	if update.Public != nil {
		p.Public = *update.Public
	}
	return cloneProject(p), nil
}

func (r *stubProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return domain.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}

func newProjectService(t *testing.T) (*ProjectService, *stubProjectRepo, *stubUserRepo) {
	t.Helper()
	users := newStubUserRepo()
	projects := newStubProjectRepo()
	svc := NewProjectService(projects, users, zerolog.Nop())
	seedUser(t, users, "alice", domain.RoleUser)
	seedUser(t, users, "bob", domain.RoleUser)
	return svc, projects, users
}

func TestProjectService_CreateAndGet(t *testing.T) {
	svc, _, _ := newProjectService(t)

	public := true
	created, err := svc.Create(context.Background(), "alice", ports.ProjectInput{
		Name:        "atlas",
		Description: "mapping tool",
		Public:      &public,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.OwnerUsername != "alice" || !created.Public {
		t.Fatalf("unexpected project: %+v", created)
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "atlas" {
		t.Fatalf("unexpected name: %s", got.Name)
	}
}

func TestProjectService_Create_UnknownOwner(t *testing.T) {
	svc, _, _ := newProjectService(t)

	if _, err := svc.Create(context.Background(), "ghost", ports.ProjectInput{Name: "x"}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProjectService_ListPublic(t *testing.T) {
	svc, _, _ := newProjectService(t)

	public := true
	if _, err := svc.Create(context.Background(), "alice", ports.ProjectInput{Name: "open", Public: &public}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), "alice", ports.ProjectInput{Name: "closed"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	projects, err := svc.ListPublic(context.Background())
	if err != nil {
		t.Fatalf("ListPublic failed: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "open" {
		t.Fatalf("unexpected public projects: %+v", projects)
	}
}

func TestProjectService_UpdateRequiresOwnership(t *testing.T) {
	svc, _, _ := newProjectService(t)

	created, err := svc.Create(context.Background(), "alice", ports.ProjectInput{Name: "atlas"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := svc.Update(context.Background(), "bob", created.ID, ports.ProjectInput{Name: "stolen"}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := svc.Update(context.Background(), "alice", created.ID, ports.ProjectInput{Name: "atlas-v2"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "atlas-v2" {
		t.Fatalf("unexpected name: %s", updated.Name)
	}
}

func TestProjectService_DeleteRequiresOwnership(t *testing.T) {
	svc, _, _ := newProjectService(t)

	created, err := svc.Create(context.Background(), "alice", ports.ProjectInput{Name: "atlas"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(context.Background(), "bob", created.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), "alice", created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); err != domain.ErrProjectNotFound {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}
