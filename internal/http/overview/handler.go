// Package overview serves the read-only project views: the month calendar
// and the dashboard summary.
package overview

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/archdesk/internal/calendar"
	"github.com/MrJamesThe3rd/archdesk/internal/http/params"
	"github.com/MrJamesThe3rd/archdesk/internal/listing"
	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
	"github.com/MrJamesThe3rd/archdesk/internal/snapshot"
)

const defaultRecentDocuments = 5

type Handler struct {
	snapshots *snapshot.Service
	now       func() time.Time
}

func NewHandler(snapshots *snapshot.Service, now func() time.Time) *Handler {
	return &Handler{snapshots: snapshots, now: now}
}

func (h *Handler) ProjectRoutes(r chi.Router) {
	r.Get("/{id}/calendar", h.calendar)
	r.Get("/{id}/overview", h.overview)
}

func (h *Handler) calendar(w http.ResponseWriter, r *http.Request) {
	projectID, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()

	loc, err := location(q.Get("tz"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	now := h.now()

	ref, err := month(q.Get("month"), now.In(loc))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var opts []calendar.Option

	if s := q.Get("week_start"); s != "" {
		ws, err := weekStart(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		opts = append(opts, calendar.WithWeekStart(ws))
	}

	snap, err := h.snapshots.Load(r.Context(), projectID)
	if err != nil {
		slog.Error("failed to load snapshot", "project_id", projectID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	grid := calendar.Build(ref, snap.Milestones, now, opts...)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toCalendarResponse(grid, now)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	projectID, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	q := r.URL.Query()

	limit, err := params.Int(q, "limit", milestone.DefaultUpcomingLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	recent, err := params.Int(q, "recent", defaultRecentDocuments)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := h.snapshots.Load(r.Context(), projectID)
	if err != nil {
		slog.Error("failed to load snapshot", "project_id", projectID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	docs, err := listing.Documents(snap.Documents, listing.DocumentQuery{Sort: listing.SortDate, Desc: true})
	if err != nil {
		slog.Error("failed to list documents", "project_id", projectID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := toDocumentResponses(docs)
	if recent >= 0 && len(resp) > recent {
		resp = resp[:recent]
	}

	now := h.now()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(overviewResponse{
		Upcoming:        toMilestoneResponses(milestone.Upcoming(snap.Milestones, now, limit), now),
		Overdue:         toMilestoneResponses(milestone.Overdue(snap.Milestones, now), now),
		RecentDocuments: resp,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

var errInvalidWeekStart = errors.New("week_start must be monday or sunday")

func weekStart(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "monday":
		return time.Monday, nil
	case "sunday":
		return time.Sunday, nil
	}

	return 0, errInvalidWeekStart
}

func location(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown time zone %q", params.ErrInvalid, name)
	}

	return loc, nil
}

// month parses YYYY-MM in loc. An empty value selects the month of now.
func month(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}

	t, err := time.ParseInLocation("2006-01", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month must be YYYY-MM", params.ErrInvalid)
	}

	return t, nil
}
