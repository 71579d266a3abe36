package classify

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/archdesk/internal/classify"
	"github.com/MrJamesThe3rd/archdesk/internal/document"
)

type Handler struct {
	svc *classify.Service
}

func NewHandler(svc *classify.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.learn)
	r.Get("/suggest", h.suggest)
}

type ruleResponse struct {
	Pattern string        `json:"pattern"`
	Type    document.Type `json:"type"`
	Folder  string        `json:"folder,omitempty"`
}

func toResponse(r *classify.Rule) ruleResponse {
	return ruleResponse{Pattern: r.Pattern, Type: r.Type, Folder: r.Folder}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.Rules(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]ruleResponse, len(rules))
	for i, rule := range rules {
		resp[i] = toResponse(rule)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	Pattern string        `json:"pattern"`
	Type    document.Type `json:"type"`
	Folder  string        `json:"folder"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rule, err := h.svc.Learn(r.Context(), req.Pattern, req.Type, req.Folder)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(rule)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// suggest answers 204 when no rule matches the name.
func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	rule, err := h.svc.Suggest(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, err)
		return
	}

	if rule == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(rule)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, classify.ErrEmptyPattern), errors.Is(err, document.ErrInvalidType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("classify request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
