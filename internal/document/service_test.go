package document_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/archdesk/internal/document"
)

type mocks struct {
	repo        *document.MockRepository
	storage     *document.MockStorage
	invalidator *document.MockInvalidator
}

func newService(t *testing.T, now time.Time) (*document.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := mocks{
		repo:        document.NewMockRepository(ctrl),
		storage:     document.NewMockStorage(ctrl),
		invalidator: document.NewMockInvalidator(ctrl),
	}

	svc := document.NewService(m.repo, m.storage, m.invalidator,
		document.WithClock(func() time.Time { return now }))

	return svc, m
}

func TestService_Create(t *testing.T) {
	projectID := uuid.New()
	now := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

	type testCase struct {
		name      string
		params    document.CreateParams
		setupMock func(m mocks)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			params: document.CreateParams{
				ProjectID: projectID,
				Name:      "  Alzado fachada norte ",
				Type:      document.TypePlan,
				Folder:    "/planos//alzados/",
				Version:   document.VersionParams{FileSize: 2048},
			},
			setupMock: func(m mocks) {
				m.storage.EXPECT().PresignUpload(gomock.Any(), gomock.Any()).Return("https://upload", nil)
				m.repo.EXPECT().CreateDocument(gomock.Any(), gomock.Any()).Return(nil)
				m.invalidator.EXPECT().Invalidate(gomock.Any(), projectID).Return(nil)
			},
		},
		{
			name:    "EmptyName",
			params:  document.CreateParams{ProjectID: projectID, Name: "  ", Type: document.TypePlan},
			wantErr: document.ErrEmptyName,
		},
		{
			name:    "InvalidType",
			params:  document.CreateParams{ProjectID: projectID, Name: "x", Type: "blueprint"},
			wantErr: document.ErrInvalidType,
		},
		{
			name: "InvalidVersionStatus",
			params: document.CreateParams{
				ProjectID: projectID,
				Name:      "x",
				Type:      document.TypePlan,
				Version:   document.VersionParams{Status: "published"},
			},
			wantErr: document.ErrInvalidStatus,
		},
		{
			name:   "RepoError",
			params: document.CreateParams{ProjectID: projectID, Name: "x", Type: document.TypeOther},
			setupMock: func(m mocks) {
				m.storage.EXPECT().PresignUpload(gomock.Any(), gomock.Any()).Return("https://upload", nil)
				m.repo.EXPECT().CreateDocument(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t, now)
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "https://upload", got.UploadURL)
			assert.Equal(t, "Alzado fachada norte", got.Document.Name)
			assert.Equal(t, "planos/alzados", got.Document.Folder)
			require.Len(t, got.Document.Versions, 1)

			v := got.Document.Versions[0]
			assert.Equal(t, 1, v.Number)
			assert.Equal(t, document.VersionDraft, v.Status)
			assert.Equal(t, now, v.UploadedAt)
			assert.Equal(t, int64(2048), v.FileSize)
			assert.Contains(t, v.StorageKey, got.Document.ID.String())
		})
	}
}

func TestService_AddVersion(t *testing.T) {
	now := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	svc, m := newService(t, now)

	doc := &document.Document{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		Name:      "Memoria",
		Type:      document.TypeReport,
		Versions: []document.Version{
			{Number: 1, UploadedAt: now.Add(-48 * time.Hour)},
			{Number: 2, UploadedAt: now.Add(-24 * time.Hour)},
		},
	}

	m.repo.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)
	m.storage.EXPECT().PresignUpload(gomock.Any(), gomock.Any()).Return("https://upload/3", nil)
	m.repo.EXPECT().AppendVersion(gomock.Any(), doc.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, v *document.Version) error {
			assert.Equal(t, 3, v.Number)
			return nil
		})
	m.invalidator.EXPECT().Invalidate(gomock.Any(), doc.ProjectID).Return(nil)

	up, err := svc.AddVersion(context.Background(), doc.ID, document.VersionParams{
		Label:  "rev-C",
		Status: document.VersionReview,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, up.Version.Number)
	assert.Len(t, up.Document.Versions, 3)

	latest, ok := up.Document.Latest()
	require.True(t, ok)
	assert.Equal(t, "rev-C", latest.Label)
}

func TestService_AddVersion_NumberReassigned(t *testing.T) {
	now := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	svc, m := newService(t, now)

	doc := &document.Document{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		Name:      "Memoria",
		Type:      document.TypeReport,
		Versions:  []document.Version{{Number: 1, UploadedAt: now.Add(-time.Hour)}},
	}

	var presigned string

	m.repo.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)
	m.storage.EXPECT().PresignUpload(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) (string, error) {
			presigned = key
			return "https://upload", nil
		})
	// Another upload took number 2 first.
	m.repo.EXPECT().AppendVersion(gomock.Any(), doc.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, v *document.Version) error {
			v.Number = 3
			return nil
		})
	m.invalidator.EXPECT().Invalidate(gomock.Any(), doc.ProjectID).Return(nil)

	up, err := svc.AddVersion(context.Background(), doc.ID, document.VersionParams{})
	require.NoError(t, err)
	assert.Equal(t, 3, up.Version.Number)
	assert.Equal(t, presigned, up.Version.StorageKey)
	assert.NotContains(t, up.Version.StorageKey, "/v2/")
	assert.NotContains(t, up.Version.StorageKey, "/v3/")
}

func TestService_AddVersion_NotFound(t *testing.T) {
	svc, m := newService(t, time.Now())

	id := uuid.New()
	m.repo.EXPECT().GetDocument(gomock.Any(), id).Return(nil, document.ErrNotFound)

	_, err := svc.AddVersion(context.Background(), id, document.VersionParams{})
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestService_DownloadURL(t *testing.T) {
	doc := &document.Document{
		ID: uuid.New(),
		Versions: []document.Version{
			{Number: 1, UploadedAt: at(100), StorageKey: "k1"},
			{Number: 2, UploadedAt: at(200), StorageKey: "k2"},
		},
	}

	type testCase struct {
		name    string
		number  int
		wantKey string
		wantErr error
	}

	tests := []testCase{
		{name: "Latest", number: 0, wantKey: "k2"},
		{name: "Explicit", number: 1, wantKey: "k1"},
		{name: "Missing", number: 7, wantErr: document.ErrVersionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t, time.Now())

			m.repo.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)

			if tt.wantErr == nil {
				m.storage.EXPECT().PresignDownload(gomock.Any(), tt.wantKey).Return("https://get/"+tt.wantKey, nil)
			}

			url, err := svc.DownloadURL(context.Background(), doc.ID, tt.number)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "https://get/"+tt.wantKey, url)
		})
	}
}

func TestService_DownloadURLWithoutVersions(t *testing.T) {
	svc, m := newService(t, time.Now())
	doc := &document.Document{ID: uuid.New()}

	m.repo.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)

	_, err := svc.DownloadURL(context.Background(), doc.ID, 0)
	assert.ErrorIs(t, err, document.ErrNoVersions)
}

func TestService_SetVersionStatus(t *testing.T) {
	doc := &document.Document{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		Versions:  []document.Version{{Number: 1}},
	}

	t.Run("Success", func(t *testing.T) {
		svc, m := newService(t, time.Now())

		m.repo.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)
		m.repo.EXPECT().UpdateVersionStatus(gomock.Any(), doc.ID, 1, document.VersionApproved).Return(nil)
		m.invalidator.EXPECT().Invalidate(gomock.Any(), doc.ProjectID).Return(nil)

		err := svc.SetVersionStatus(context.Background(), doc.ID, 1, document.VersionApproved)
		assert.NoError(t, err)
	})

	t.Run("UnknownVersion", func(t *testing.T) {
		svc, m := newService(t, time.Now())

		m.repo.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)

		err := svc.SetVersionStatus(context.Background(), doc.ID, 2, document.VersionApproved)
		assert.ErrorIs(t, err, document.ErrVersionNotFound)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		svc, _ := newService(t, time.Now())

		err := svc.SetVersionStatus(context.Background(), doc.ID, 1, "published")
		assert.ErrorIs(t, err, document.ErrInvalidStatus)
	})
}

func TestService_Delete(t *testing.T) {
	svc, m := newService(t, time.Now())

	doc := &document.Document{ID: uuid.New(), ProjectID: uuid.New()}

	m.repo.EXPECT().GetDocument(gomock.Any(), doc.ID).Return(doc, nil)
	m.repo.EXPECT().DeleteDocument(gomock.Any(), doc.ID).Return(nil)
	m.invalidator.EXPECT().Invalidate(gomock.Any(), doc.ProjectID).Return(errors.New("cache down"))

	assert.NoError(t, svc.Delete(context.Background(), doc.ID))
}
