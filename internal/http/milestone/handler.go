package milestone

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/archdesk/internal/http/params"
	"github.com/MrJamesThe3rd/archdesk/internal/listing"
	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
	"github.com/MrJamesThe3rd/archdesk/internal/snapshot"
)

type Handler struct {
	svc       *milestone.Service
	snapshots *snapshot.Service
	now       func() time.Time
}

func NewHandler(svc *milestone.Service, snapshots *snapshot.Service, now func() time.Time) *Handler {
	return &Handler{svc: svc, snapshots: snapshots, now: now}
}

// ProjectRoutes registers the routes nested under /projects.
func (h *Handler) ProjectRoutes(r chi.Router) {
	r.Get("/{id}/milestones", h.list)
	r.Post("/{id}/milestones", h.create)
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/toggle", h.toggle)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	projectID, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	q, err := parseQuery(r)
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

	now := h.now()

	ms, err := listing.Milestones(snap.Milestones, q, now)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(ms, now)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func parseQuery(r *http.Request) (listing.MilestoneQuery, error) {
	v := r.URL.Query()

	q := listing.MilestoneQuery{Search: v.Get("search")}

	if s := v.Get("type"); s != "" && s != listing.All {
		t, err := milestone.ParseType(s)
		if err != nil {
			return q, err
		}

		q.Type = t
	}

	if s := v.Get("priority"); s != "" && s != listing.All {
		p, err := milestone.ParsePriority(s)
		if err != nil {
			return q, err
		}

		q.Priority = p
	}

	if s := v.Get("status"); s != "" && s != listing.All {
		st, err := milestone.ParseStatus(s)
		if err != nil {
			return q, err
		}

		q.Status = st
	}

	from, to, err := params.TimeRange(v)
	if err != nil {
		return q, err
	}

	q.From, q.To = from, to

	if q.Sort, q.Desc, err = params.Sort(v); err != nil {
		return q, err
	}

	return q, nil
}

type createMilestoneRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Type        milestone.Type     `json:"type"`
	Date        string             `json:"date"`
	Priority    milestone.Priority `json:"priority"`
	Status      milestone.Status   `json:"status"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	projectID, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req createMilestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	date, err := params.Time(req.Date, false)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.svc.Create(r.Context(), milestone.CreateParams{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Date:        date,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(*m, h.now())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(*m, h.now())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateMilestoneRequest struct {
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
	Type        *milestone.Type     `json:"type,omitempty"`
	Date        *string             `json:"date,omitempty"`
	Priority    *milestone.Priority `json:"priority,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateMilestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Title != nil {
		m.Title = *req.Title
	}

	if req.Description != nil {
		m.Description = *req.Description
	}

	if req.Type != nil {
		m.Type = *req.Type
	}

	if req.Date != nil {
		date, err := params.Time(*req.Date, false)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m.Date = date
	}

	if req.Priority != nil {
		m.Priority = *req.Priority
	}

	if err := h.svc.Update(r.Context(), m); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(*m, h.now())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	m, err := h.svc.Toggle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(*m, h.now())); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, milestone.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, milestone.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, milestone.ErrInvalidType),
		errors.Is(err, milestone.ErrInvalidPriority),
		errors.Is(err, milestone.ErrInvalidStatus),
		errors.Is(err, milestone.ErrEmptyTitle),
		errors.Is(err, listing.ErrInvalidSortKey),
		errors.Is(err, listing.ErrUnsupportedSortKey):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("milestone request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
