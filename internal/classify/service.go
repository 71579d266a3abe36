// Package classify learns which document type and folder a file name
// belongs to, from patterns recorded by users.
package classify

import (
	"context"
	"errors"
	"strings"

	"github.com/MrJamesThe3rd/archdesk/internal/document"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=classify

var ErrEmptyPattern = errors.New("pattern is empty")

// Rule maps every name containing Pattern (case-insensitive) to a type and
// folder.
type Rule struct {
	Pattern string
	Type    document.Type
	Folder  string
}

type Repository interface {
	// FindRule returns the rule with the longest pattern contained in name,
	// or nil when none matches.
	FindRule(ctx context.Context, name string) (*Rule, error)
	CreateRule(ctx context.Context, r *Rule) error
	ListRules(ctx context.Context) ([]*Rule, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the rule for the given document name, or nil if no rule
// matches.
func (s *Service) Suggest(ctx context.Context, name string) (*Rule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	return s.repo.FindRule(ctx, name)
}

// Learn remembers a new rule.
func (s *Service) Learn(ctx context.Context, pattern string, typ document.Type, folder string) (*Rule, error) {
	r := &Rule{
		Pattern: strings.TrimSpace(pattern),
		Type:    typ,
		Folder:  strings.Trim(strings.TrimSpace(folder), "/"),
	}

	if r.Pattern == "" {
		return nil, ErrEmptyPattern
	}

	if _, err := document.ParseType(string(r.Type)); err != nil {
		return nil, err
	}

	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Rules(ctx context.Context) ([]*Rule, error) {
	return s.repo.ListRules(ctx)
}
