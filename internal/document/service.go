package document

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=document
type Repository interface {
	CreateDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	ListDocuments(ctx context.Context, projectID uuid.UUID) ([]*Document, error)
	UpdateDocument(ctx context.Context, doc *Document) error
	AppendVersion(ctx context.Context, documentID uuid.UUID, v *Version) error
	UpdateVersionStatus(ctx context.Context, documentID uuid.UUID, number int, status VersionStatus) error

	DeleteDocument(ctx context.Context, id uuid.UUID) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

// Storage hands out short-lived URLs for the binary content of versions.
type Storage interface {
	PresignUpload(ctx context.Context, key string) (string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

// Invalidator is notified after every mutation of a project's documents.
type Invalidator interface {
	Invalidate(ctx context.Context, projectID uuid.UUID) error
}

type Service struct {
	repo        Repository
	storage     Storage
	invalidator Invalidator
	now         func() time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock used to stamp uploads.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(repo Repository, storage Storage, invalidator Invalidator, opts ...Option) *Service {
	s := &Service{
		repo:        repo,
		storage:     storage,
		invalidator: invalidator,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type VersionParams struct {
	Label    string
	FileSize int64
	Status   VersionStatus
}

type CreateParams struct {
	ProjectID uuid.UUID
	Name      string
	Type      Type
	Folder    string
	Metadata  Metadata
	Version   VersionParams
}

// Upload is the result of registering a new version: the stored record plus
// the URL the client must PUT the file content to.
type Upload struct {
	Document  *Document
	Version   Version
	UploadURL string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Upload, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if _, err := ParseType(string(params.Type)); err != nil {
		return nil, err
	}

	doc := &Document{
		ID:        uuid.New(),
		ProjectID: params.ProjectID,
		Name:      name,
		Type:      params.Type,
		Folder:    normalizeFolder(params.Folder),
		Metadata:  params.Metadata,
	}

	v, err := s.newVersion(doc, 1, params.Version)
	if err != nil {
		return nil, err
	}

	doc.Versions = []Version{v}

	url, err := s.storage.PresignUpload(ctx, v.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("presigning upload: %w", err)
	}

	if err := s.repo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	s.invalidate(ctx, doc.ProjectID)

	return &Upload{Document: doc, Version: v, UploadURL: url}, nil
}

// AddVersion appends a new version to an existing document. Versions are
// never removed or rewritten.
func (s *Service) AddVersion(ctx context.Context, id uuid.UUID, params VersionParams) (*Upload, error) {
	doc, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	v, err := s.newVersion(doc, doc.NextVersionNumber(), params)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.PresignUpload(ctx, v.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("presigning upload: %w", err)
	}

	if err := s.repo.AppendVersion(ctx, doc.ID, &v); err != nil {
		return nil, err
	}

	doc.Versions = append(doc.Versions, v)
	s.invalidate(ctx, doc.ProjectID)

	return &Upload{Document: doc, Version: v, UploadURL: url}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.repo.GetDocument(ctx, id)
}

func (s *Service) List(ctx context.Context, projectID uuid.UUID) ([]*Document, error) {
	return s.repo.ListDocuments(ctx, projectID)
}

func (s *Service) Update(ctx context.Context, doc *Document) error {
	doc.Name = strings.TrimSpace(doc.Name)
	if doc.Name == "" {
		return ErrEmptyName
	}

	if _, err := ParseType(string(doc.Type)); err != nil {
		return err
	}

	doc.Folder = normalizeFolder(doc.Folder)

	if err := s.repo.UpdateDocument(ctx, doc); err != nil {
		return err
	}

	s.invalidate(ctx, doc.ProjectID)

	return nil
}

func (s *Service) SetVersionStatus(ctx context.Context, id uuid.UUID, number int, status VersionStatus) error {
	if _, err := ParseVersionStatus(string(status)); err != nil {
		return err
	}

	doc, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if _, ok := doc.Version(number); !ok {
		return ErrVersionNotFound
	}

	if err := s.repo.UpdateVersionStatus(ctx, id, number, status); err != nil {
		return err
	}

	s.invalidate(ctx, doc.ProjectID)

	return nil
}

// DownloadURL returns a presigned URL for the given version, or for the latest
// one when number is zero.
func (s *Service) DownloadURL(ctx context.Context, id uuid.UUID, number int) (string, error) {
	doc, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}

	var (
		v  Version
		ok bool
	)

	if number == 0 {
		if v, ok = doc.Latest(); !ok {
			return "", ErrNoVersions
		}
	} else if v, ok = doc.Version(number); !ok {
		return "", ErrVersionNotFound
	}

	url, err := s.storage.PresignDownload(ctx, v.StorageKey)
	if err != nil {
		return "", fmt.Errorf("presigning download: %w", err)
	}

	return url, nil
}

// Delete removes the document together with all of its versions.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteDocument(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, doc.ProjectID)

	return nil
}

func (s *Service) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	if err := s.repo.DeleteByProject(ctx, projectID); err != nil {
		return err
	}

	s.invalidate(ctx, projectID)

	return nil
}

func (s *Service) newVersion(doc *Document, number int, params VersionParams) (Version, error) {
	status := params.Status
	if status == "" {
		status = VersionDraft
	}

	if _, err := ParseVersionStatus(string(status)); err != nil {
		return Version{}, err
	}

	return Version{
		Number:     number,
		Label:      strings.TrimSpace(params.Label),
		UploadedAt: s.now().Truncate(time.Millisecond),
		FileSize:   max(params.FileSize, 0),
		StorageKey: storageKey(doc),
		Status:     status,
	}, nil
}

// invalidate is best effort: a stale snapshot expires on its own.
func (s *Service) invalidate(ctx context.Context, projectID uuid.UUID) {
	if s.invalidator == nil {
		return
	}

	if err := s.invalidator.Invalidate(ctx, projectID); err != nil {
		slog.Warn("failed to invalidate snapshot", "project_id", projectID, "error", err)
	}
}

// storageKey does not encode the version number: the repository may assign
// a different one when uploads race.
func storageKey(doc *Document) string {
	return fmt.Sprintf("projects/%s/documents/%s/%s", doc.ProjectID, doc.ID, uuid.New())
}

func normalizeFolder(folder string) string {
	parts := strings.Split(strings.TrimSpace(folder), "/")

	clean := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}

	return strings.Join(clean, "/")
}
