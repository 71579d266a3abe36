package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectMilestoneColumns = `
	id, project_id, title, description, type, date, priority, status, completed_at, created_at, updated_at
`

// scanMilestone expects the columns of selectMilestoneColumns in order.
func scanMilestone(s scanner) (*milestone.Milestone, error) {
	var m milestone.Milestone

	var typeStr, priorityStr, status string

	if err := s.Scan(
		&m.ID, &m.ProjectID, &m.Title, &m.Description, &typeStr, &m.Date,
		&priorityStr, &status, &m.CompletedAt, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	m.Type = milestone.Type(typeStr)
	m.Priority = milestone.Priority(priorityStr)
	m.Status = milestone.Status(status)

	return &m, nil
}

func (s *Store) CreateMilestone(ctx context.Context, m *milestone.Milestone) error {
	query := `
		INSERT INTO milestones (id, project_id, title, description, type, date, priority, status, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		m.ID,
		m.ProjectID,
		m.Title,
		m.Description,
		m.Type,
		m.Date,
		m.Priority,
		m.Status,
		m.CompletedAt,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating milestone: %w", err)
	}

	return nil
}

func (s *Store) GetMilestone(ctx context.Context, id uuid.UUID) (*milestone.Milestone, error) {
	query := `SELECT ` + selectMilestoneColumns + ` FROM milestones WHERE id = $1`

	m, err := scanMilestone(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, milestone.ErrNotFound
		}

		return nil, fmt.Errorf("getting milestone: %w", err)
	}

	return m, nil
}

func (s *Store) ListMilestones(ctx context.Context, projectID uuid.UUID) ([]*milestone.Milestone, error) {
	query := `SELECT ` + selectMilestoneColumns + `
		FROM milestones
		WHERE project_id = $1
		ORDER BY date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing milestones: %w", err)
	}
	defer rows.Close()

	var out []*milestone.Milestone

	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning milestone: %w", err)
		}

		out = append(out, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating milestones: %w", err)
	}

	return out, nil
}

func (s *Store) UpdateMilestone(ctx context.Context, m *milestone.Milestone) error {
	query := `
		UPDATE milestones
		SET title = $1, description = $2, type = $3, date = $4, priority = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		m.Title,
		m.Description,
		m.Type,
		m.Date,
		m.Priority,
		m.ID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return milestone.ErrNotFound
		}

		return fmt.Errorf("updating milestone: %w", err)
	}

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status milestone.Status, completedAt *time.Time) error {
	query := `
		UPDATE milestones
		SET status = $1, completed_at = $2, updated_at = NOW()
		WHERE id = $3
	`

	_, err := s.db.ExecContext(ctx, query, status, completedAt, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return nil
}

func (s *Store) DeleteMilestone(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM milestones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting milestone: %w", err)
	}

	return nil
}

func (s *Store) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM milestones WHERE project_id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("deleting project milestones: %w", err)
	}

	return nil
}
