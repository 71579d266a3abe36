package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=project

type Repository interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	UpdateProject(ctx context.Context, p *Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

// Dependent owns rows that belong to a project and is cleared when the
// project is deleted.
type Dependent interface {
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

type Invalidator interface {
	Invalidate(ctx context.Context, projectID uuid.UUID) error
}

type Service struct {
	repo        Repository
	dependents  []Dependent
	invalidator Invalidator
}

func NewService(repo Repository, invalidator Invalidator, dependents ...Dependent) *Service {
	return &Service{
		repo:        repo,
		dependents:  dependents,
		invalidator: invalidator,
	}
}

func (s *Service) Create(ctx context.Context, name, client string) (*Project, error) {
	p := &Project{
		ID:     uuid.New(),
		Name:   strings.TrimSpace(name),
		Client: strings.TrimSpace(client),
	}

	if p.Name == "" {
		return nil, ErrEmptyName
	}

	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetProject(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Project, error) {
	return s.repo.ListProjects(ctx)
}

func (s *Service) Update(ctx context.Context, p *Project) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Client = strings.TrimSpace(p.Client)

	if p.Name == "" {
		return ErrEmptyName
	}

	return s.repo.UpdateProject(ctx, p)
}

// Delete removes the project after clearing its dependents. Every step runs
// even if an earlier one fails; the failures are joined. The steps are not
// atomic.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetProject(ctx, id); err != nil {
		return err
	}

	var errs []error

	for _, d := range s.dependents {
		if err := d.DeleteByProject(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}

	if err := s.repo.DeleteProject(ctx, id); err != nil {
		errs = append(errs, err)
	}

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, id); err != nil {
			slog.Warn("failed to invalidate snapshot", "project_id", id, "error", err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}

	return nil
}
