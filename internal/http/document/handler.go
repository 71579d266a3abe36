package document

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/archdesk/internal/classify"
	"github.com/MrJamesThe3rd/archdesk/internal/document"
	"github.com/MrJamesThe3rd/archdesk/internal/http/params"
	"github.com/MrJamesThe3rd/archdesk/internal/listing"
	"github.com/MrJamesThe3rd/archdesk/internal/snapshot"
)

// Suggester proposes a type and folder for a document name.
type Suggester interface {
	Suggest(ctx context.Context, name string) (*classify.Rule, error)
}

type Handler struct {
	svc       *document.Service
	snapshots *snapshot.Service
	suggester Suggester
}

// NewHandler builds the handler. suggester may be nil.
func NewHandler(svc *document.Service, snapshots *snapshot.Service, suggester Suggester) *Handler {
	return &Handler{svc: svc, snapshots: snapshots, suggester: suggester}
}

// ProjectRoutes registers the routes nested under /projects.
func (h *Handler) ProjectRoutes(r chi.Router) {
	r.Get("/{id}/documents", h.list)
	r.Post("/{id}/documents", h.create)
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/versions", h.addVersion)
	r.Patch("/{id}/versions/{number}/status", h.setVersionStatus)
	r.Get("/{id}/download", h.download)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	projectID, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	q, err := params.DocumentQuery(r.URL.Query())
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

	docs, err := listing.Documents(snap.Documents, q)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(docs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type versionRequest struct {
	Label    string                 `json:"label"`
	FileSize int64                  `json:"file_size"`
	Status   document.VersionStatus `json:"status"`
}

func (v versionRequest) params() document.VersionParams {
	return document.VersionParams{Label: v.Label, FileSize: v.FileSize, Status: v.Status}
}

type createDocumentRequest struct {
	Name        string         `json:"name"`
	Type        document.Type  `json:"type"`
	Folder      string         `json:"folder"`
	Description string         `json:"description"`
	Discipline  string         `json:"discipline"`
	Version     versionRequest `json:"version"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	projectID, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Type == "" {
		req.Type, req.Folder = h.classify(r.Context(), req.Name, req.Folder)
	}

	upload, err := h.svc.Create(r.Context(), document.CreateParams{
		ProjectID: projectID,
		Name:      req.Name,
		Type:      req.Type,
		Folder:    req.Folder,
		Metadata: document.Metadata{
			Description: req.Description,
			Discipline:  req.Discipline,
		},
		Version: req.Version.params(),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toUploadResponse(upload)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// classify falls back to TypeOther when no rule matches. A folder given by
// the client wins over the rule's.
func (h *Handler) classify(ctx context.Context, name, folder string) (document.Type, string) {
	if h.suggester == nil {
		return document.TypeOther, folder
	}

	rule, err := h.suggester.Suggest(ctx, name)
	if err != nil {
		slog.Warn("failed to classify document", "name", name, "error", err)
		return document.TypeOther, folder
	}

	if rule == nil {
		return document.TypeOther, folder
	}

	if folder == "" {
		folder = rule.Folder
	}

	return rule.Type, folder
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	doc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(doc)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateDocumentRequest struct {
	Name        *string        `json:"name,omitempty"`
	Type        *document.Type `json:"type,omitempty"`
	Folder      *string        `json:"folder,omitempty"`
	Description *string        `json:"description,omitempty"`
	Discipline  *string        `json:"discipline,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Name != nil {
		doc.Name = *req.Name
	}

	if req.Type != nil {
		doc.Type = *req.Type
	}

	if req.Folder != nil {
		doc.Folder = *req.Folder
	}

	if req.Description != nil {
		doc.Metadata.Description = *req.Description
	}

	if req.Discipline != nil {
		doc.Metadata.Discipline = *req.Discipline
	}

	if err := h.svc.Update(r.Context(), doc); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(doc)); err != nil {
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

func (h *Handler) addVersion(w http.ResponseWriter, r *http.Request) {
	id, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req versionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	upload, err := h.svc.AddVersion(r.Context(), id, req.params())
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toUploadResponse(upload)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type versionStatusRequest struct {
	Status document.VersionStatus `json:"status"`
}

func (h *Handler) setVersionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		http.Error(w, "invalid version number", http.StatusBadRequest)
		return
	}

	var req versionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.SetVersionStatus(r.Context(), id, number, req.Status); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// download redirects to a presigned URL of the requested version, the
// latest one when no version is given.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	id, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	number, err := params.Int(r.URL.Query(), "version", 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	url, err := h.svc.DownloadURL(r.Context(), id, number)
	if err != nil {
		writeError(w, err)
		return
	}

	http.Redirect(w, r, url, http.StatusFound)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, document.ErrNotFound),
		errors.Is(err, document.ErrVersionNotFound),
		errors.Is(err, document.ErrNoVersions):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, document.ErrInvalidType),
		errors.Is(err, document.ErrInvalidStatus),
		errors.Is(err, document.ErrEmptyName),
		errors.Is(err, listing.ErrInvalidSortKey),
		errors.Is(err, listing.ErrUnsupportedSortKey):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("document request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
