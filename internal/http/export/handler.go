package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/document"
	"github.com/MrJamesThe3rd/archdesk/internal/export"
	"github.com/MrJamesThe3rd/archdesk/internal/http/params"
	"github.com/MrJamesThe3rd/archdesk/internal/listing"
)

const summaryFile = "indice.txt"

type Handler struct {
	svc *export.Service
	now func() time.Time
}

func NewHandler(svc *export.Service, now func() time.Time) *Handler {
	return &Handler{svc: svc, now: now}
}

func (h *Handler) ProjectRoutes(r chi.Router) {
	r.Get("/{id}/export", h.metadata)
	r.Get("/{id}/export/download", h.download)
}

type itemResponse struct {
	DocumentID uuid.UUID              `json:"document_id"`
	Name       string                 `json:"name"`
	Type       document.Type          `json:"type"`
	Folder     string                 `json:"folder,omitempty"`
	Version    int                    `json:"version,omitempty"`
	Status     document.VersionStatus `json:"status,omitempty"`
	File       string                 `json:"file,omitempty"`
}

type exportMetadataResponse struct {
	Items   []itemResponse `json:"items"`
	Summary string         `json:"summary"`
}

func toItemResponse(item export.Item, root string) itemResponse {
	resp := itemResponse{
		DocumentID: item.Document.ID,
		Name:       item.Document.Name,
		Type:       item.Document.Type,
		Folder:     item.Document.Folder,
	}

	if item.FilePath != "" {
		resp.Version = item.Version.Number
		resp.Status = item.Version.Status

		if rel, err := filepath.Rel(root, item.FilePath); err == nil {
			resp.File = filepath.ToSlash(rel)
		}
	}

	return resp
}

// run exports into a fresh temporary directory. The caller removes it.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) (string, []export.Item, bool) {
	projectID, err := params.UUID(r, "id")
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return "", nil, false
	}

	v := r.URL.Query()

	q, err := params.DocumentQuery(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", nil, false
	}

	if v.Get("sort") == "" {
		q.Sort = listing.SortName
	}

	tmpDir, err := os.MkdirTemp("", "archdesk-export-*")
	if err != nil {
		slog.Error("failed to create export directory", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return "", nil, false
	}

	items, err := h.svc.Export(r.Context(), projectID, q, tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		slog.Error("export failed", "project_id", projectID, "error", err)
		http.Error(w, "export failed", http.StatusBadGateway)

		return "", nil, false
	}

	return tmpDir, items, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	tmpDir, items, ok := h.run(w, r)
	if !ok {
		return
	}
	defer os.RemoveAll(tmpDir)

	resp := exportMetadataResponse{
		Items:   make([]itemResponse, len(items)),
		Summary: h.svc.GenerateSummary(items),
	}

	for i, item := range items {
		resp.Items[i] = toItemResponse(item, tmpDir)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	tmpDir, items, ok := h.run(w, r)
	if !ok {
		return
	}
	defer os.RemoveAll(tmpDir)

	summary := h.svc.GenerateSummary(items)
	if err := os.WriteFile(filepath.Join(tmpDir, summaryFile), []byte(summary), 0o644); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s.zip\"", h.now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err := filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(filepath.ToSlash(relPath))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
