package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/archdesk/internal/document"
)

type versionResponse struct {
	Number     int                    `json:"number"`
	Label      string                 `json:"label,omitempty"`
	UploadedAt time.Time              `json:"uploaded_at"`
	FileSize   int64                  `json:"file_size"`
	Status     document.VersionStatus `json:"status"`
}

type documentResponse struct {
	ID          uuid.UUID         `json:"id"`
	ProjectID   uuid.UUID         `json:"project_id"`
	Name        string            `json:"name"`
	Type        document.Type     `json:"type"`
	Folder      string            `json:"folder"`
	Description string            `json:"description,omitempty"`
	Discipline  string            `json:"discipline,omitempty"`
	Latest      *versionResponse  `json:"latest,omitempty"`
	Versions    []versionResponse `json:"versions"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"`
}

type uploadResponse struct {
	Document  documentResponse `json:"document"`
	Version   versionResponse  `json:"version"`
	UploadURL string           `json:"upload_url"`
}

func toVersionResponse(v document.Version) versionResponse {
	return versionResponse{
		Number:     v.Number,
		Label:      v.Label,
		UploadedAt: v.UploadedAt,
		FileSize:   v.FileSize,
		Status:     v.Status,
	}
}

// toResponse lists versions most recent first.
func toResponse(d *document.Document) documentResponse {
	resp := documentResponse{
		ID:          d.ID,
		ProjectID:   d.ProjectID,
		Name:        d.Name,
		Type:        d.Type,
		Folder:      d.Folder,
		Description: d.Metadata.Description,
		Discipline:  d.Metadata.Discipline,
		Versions:    make([]versionResponse, 0, len(d.Versions)),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}

	for _, v := range document.SortVersions(d.Versions) {
		resp.Versions = append(resp.Versions, toVersionResponse(v))
	}

	if len(resp.Versions) > 0 {
		resp.Latest = &resp.Versions[0]
	}

	return resp
}

func toResponseList(docs []*document.Document) []documentResponse {
	resp := make([]documentResponse, len(docs))
	for i, d := range docs {
		resp[i] = toResponse(d)
	}

	return resp
}

func toUploadResponse(u *document.Upload) uploadResponse {
	return uploadResponse{
		Document:  toResponse(u.Document),
		Version:   toVersionResponse(u.Version),
		UploadURL: u.UploadURL,
	}
}
