package project

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/project"
)

type projectResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Client    string     `json:"client,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toResponse(p *project.Project) projectResponse {
	return projectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Client:    p.Client,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toResponseList(ps []*project.Project) []projectResponse {
	resp := make([]projectResponse, len(ps))
	for i, p := range ps {
		resp[i] = toResponse(p)
	}

	return resp
}
