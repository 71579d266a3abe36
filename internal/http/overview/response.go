package overview

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/calendar"
	"github.com/MrJamesThe3rd/archdesk/internal/document"
	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
)

type milestoneResponse struct {
	ID       uuid.UUID          `json:"id"`
	Title    string             `json:"title"`
	Type     milestone.Type     `json:"type"`
	Date     time.Time          `json:"date"`
	Priority milestone.Priority `json:"priority"`
	Status   milestone.Status   `json:"status"` // display status
}

type cellResponse struct {
	Date       string              `json:"date"`
	InMonth    bool                `json:"in_month"`
	Today      bool                `json:"today"`
	Milestones []milestoneResponse `json:"milestones"`
}

type calendarResponse struct {
	Year      int              `json:"year"`
	Month     int              `json:"month"`
	WeekStart string           `json:"week_start"`
	Weeks     [][]cellResponse `json:"weeks"`
}

type documentResponse struct {
	ID         uuid.UUID              `json:"id"`
	Name       string                 `json:"name"`
	Type       document.Type          `json:"type"`
	Folder     string                 `json:"folder,omitempty"`
	Version    int                    `json:"version"`
	Status     document.VersionStatus `json:"status"`
	UploadedAt time.Time              `json:"uploaded_at"`
}

type overviewResponse struct {
	Upcoming        []milestoneResponse `json:"upcoming"`
	Overdue         []milestoneResponse `json:"overdue"`
	RecentDocuments []documentResponse  `json:"recent_documents"`
}

func toMilestoneResponses(ms []milestone.Milestone, now time.Time) []milestoneResponse {
	resp := make([]milestoneResponse, len(ms))
	for i, m := range ms {
		resp[i] = milestoneResponse{
			ID:       m.ID,
			Title:    m.Title,
			Type:     m.Type,
			Date:     m.Date,
			Priority: m.Priority,
			Status:   milestone.DisplayStatus(m, now),
		}
	}

	return resp
}

func toCalendarResponse(g calendar.Grid, now time.Time) calendarResponse {
	resp := calendarResponse{
		Year:      g.Year,
		Month:     int(g.Month),
		WeekStart: g.WeekStart.String(),
		Weeks:     make([][]cellResponse, len(g.Weeks)),
	}

	for i, week := range g.Weeks {
		cells := make([]cellResponse, len(week))
		for j, c := range week {
			cells[j] = cellResponse{
				Date:       c.Date.Format(time.DateOnly),
				InMonth:    c.InMonth,
				Today:      c.Today,
				Milestones: toMilestoneResponses(c.Milestones, now),
			}
		}

		resp.Weeks[i] = cells
	}

	return resp
}

// toDocumentResponses skips documents without versions.
func toDocumentResponses(docs []*document.Document) []documentResponse {
	resp := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		v, ok := d.Latest()
		if !ok {
			continue
		}

		resp = append(resp, documentResponse{
			ID:         d.ID,
			Name:       d.Name,
			Type:       d.Type,
			Folder:     d.Folder,
			Version:    v.Number,
			Status:     v.Status,
			UploadedAt: v.UploadedAt,
		})
	}

	return resp
}
