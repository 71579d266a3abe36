package milestone

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
)

type milestoneResponse struct {
	ID            uuid.UUID          `json:"id"`
	ProjectID     uuid.UUID          `json:"project_id"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	Type          milestone.Type     `json:"type"`
	Date          time.Time          `json:"date"`
	Priority      milestone.Priority `json:"priority"`
	Status        milestone.Status   `json:"status"`
	DisplayStatus milestone.Status   `json:"display_status"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     *time.Time         `json:"updated_at,omitempty"`
}

// toResponse renders m as seen at now.
func toResponse(m milestone.Milestone, now time.Time) milestoneResponse {
	return milestoneResponse{
		ID:            m.ID,
		ProjectID:     m.ProjectID,
		Title:         m.Title,
		Description:   m.Description,
		Type:          m.Type,
		Date:          m.Date,
		Priority:      m.Priority,
		Status:        m.Status,
		DisplayStatus: milestone.DisplayStatus(m, now),
		CompletedAt:   m.CompletedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toResponseList(ms []milestone.Milestone, now time.Time) []milestoneResponse {
	resp := make([]milestoneResponse, len(ms))
	for i, m := range ms {
		resp[i] = toResponse(m, now)
	}

	return resp
}
