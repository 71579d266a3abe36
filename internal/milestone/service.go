package milestone

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=milestone
type Repository interface {
	CreateMilestone(ctx context.Context, m *Milestone) error
	GetMilestone(ctx context.Context, id uuid.UUID) (*Milestone, error)
	ListMilestones(ctx context.Context, projectID uuid.UUID) ([]*Milestone, error)
	UpdateMilestone(ctx context.Context, m *Milestone) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, completedAt *time.Time) error

	DeleteMilestone(ctx context.Context, id uuid.UUID) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

// Invalidator is notified after every mutation of a project's milestones.
type Invalidator interface {
	Invalidate(ctx context.Context, projectID uuid.UUID) error
}

type Service struct {
	repo        Repository
	invalidator Invalidator
	now         func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, invalidator Invalidator, opts ...Option) *Service {
	s := &Service{repo: repo, invalidator: invalidator, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	Type        Type
	Date        time.Time
	Priority    Priority
	Status      Status
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Milestone, error) {
	m := &Milestone{
		ProjectID:   params.ProjectID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Type:        params.Type,
		Date:        params.Date,
		Priority:    params.Priority,
		Status:      params.Status,
	}

	if m.Type == "" {
		m.Type = TypeOther
	}

	if m.Priority == "" {
		m.Priority = PriorityMedium
	}

	if m.Status == "" {
		m.Status = StatusPending
	}

	if err := validate(m); err != nil {
		return nil, err
	}

	switch m.Status {
	case StatusPending:
	case StatusCompleted:
		now := s.now()
		m.CompletedAt = &now
	default:
		return nil, ErrInvalidStatus
	}

	m.ID = uuid.New()

	if err := s.repo.CreateMilestone(ctx, m); err != nil {
		return nil, err
	}

	s.invalidate(ctx, m.ProjectID)

	return m, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Milestone, error) {
	return s.repo.GetMilestone(ctx, id)
}

func (s *Service) List(ctx context.Context, projectID uuid.UUID) ([]*Milestone, error) {
	return s.repo.ListMilestones(ctx, projectID)
}

// Update saves an edited milestone. Status changes go through Toggle only.
func (s *Service) Update(ctx context.Context, m *Milestone) error {
	m.Title = strings.TrimSpace(m.Title)
	m.Description = strings.TrimSpace(m.Description)

	if err := validate(m); err != nil {
		return err
	}

	if err := s.repo.UpdateMilestone(ctx, m); err != nil {
		return err
	}

	s.invalidate(ctx, m.ProjectID)

	return nil
}

// Toggle switches a milestone between pending and completed.
func (s *Service) Toggle(ctx context.Context, id uuid.UUID) (*Milestone, error) {
	m, err := s.repo.GetMilestone(ctx, id)
	if err != nil {
		return nil, err
	}

	toggled, err := Toggle(*m, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, toggled.Status, toggled.CompletedAt); err != nil {
		return nil, err
	}

	s.invalidate(ctx, toggled.ProjectID)

	return &toggled, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	m, err := s.repo.GetMilestone(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteMilestone(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, m.ProjectID)

	return nil
}

func (s *Service) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	if err := s.repo.DeleteByProject(ctx, projectID); err != nil {
		return err
	}

	s.invalidate(ctx, projectID)

	return nil
}

func (s *Service) invalidate(ctx context.Context, projectID uuid.UUID) {
	if s.invalidator == nil {
		return
	}

	if err := s.invalidator.Invalidate(ctx, projectID); err != nil {
		slog.Warn("failed to invalidate snapshot", "project_id", projectID, "error", err)
	}
}

func validate(m *Milestone) error {
	if m.Title == "" {
		return ErrEmptyTitle
	}

	if _, err := ParseType(string(m.Type)); err != nil {
		return err
	}

	if _, err := ParsePriority(string(m.Priority)); err != nil {
		return err
	}

	return nil
}
