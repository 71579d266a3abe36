package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/archdesk/internal/classify"
	"github.com/MrJamesThe3rd/archdesk/internal/document"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindRule(ctx context.Context, name string) (*classify.Rule, error) {
	query := `
		SELECT pattern, type, folder
		FROM document_rules
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var (
		r   classify.Rule
		typ string
	)

	err := s.db.QueryRowContext(ctx, query, name).Scan(&r.Pattern, &typ, &r.Folder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding rule: %w", err)
	}

	r.Type = document.Type(typ)

	return &r, nil
}

func (s *Store) CreateRule(ctx context.Context, r *classify.Rule) error {
	query := `
		INSERT INTO document_rules (pattern, type, folder, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	_, err := s.db.ExecContext(ctx, query, r.Pattern, r.Type, r.Folder)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (s *Store) ListRules(ctx context.Context) ([]*classify.Rule, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pattern, type, folder FROM document_rules ORDER BY pattern ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var out []*classify.Rule

	for rows.Next() {
		var (
			r   classify.Rule
			typ string
		)

		if err := rows.Scan(&r.Pattern, &typ, &r.Folder); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		r.Type = document.Type(typ)
		out = append(out, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}

	return out, nil
}
