package snapshot_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/archdesk/internal/cache"
	"github.com/MrJamesThe3rd/archdesk/internal/document"
	"github.com/MrJamesThe3rd/archdesk/internal/milestone"
	"github.com/MrJamesThe3rd/archdesk/internal/snapshot"
)

var (
	_ document.Invalidator  = (*snapshot.Service)(nil)
	_ milestone.Invalidator = (*snapshot.Service)(nil)
)

func TestService_LoadCachesUntilInvalidated(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := snapshot.NewMockDocumentLister(ctrl)
	ms := snapshot.NewMockMilestoneLister(ctrl)
	svc := snapshot.NewService(docs, ms, cache.NewMemory[snapshot.Snapshot](0))

	ctx := context.Background()
	projectID := uuid.New()
	doc := &document.Document{ID: uuid.New(), ProjectID: projectID, Name: "Planta"}
	m := &milestone.Milestone{ID: uuid.New(), ProjectID: projectID, Title: "Entrega"}

	docs.EXPECT().ListDocuments(gomock.Any(), projectID).Return([]*document.Document{doc}, nil).Times(2)
	ms.EXPECT().ListMilestones(gomock.Any(), projectID).Return([]*milestone.Milestone{m}, nil).Times(2)

	first, err := svc.Load(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, projectID, first.ProjectID)
	assert.Equal(t, []*document.Document{doc}, first.Documents)
	assert.Equal(t, []milestone.Milestone{*m}, first.Milestones)

	second, err := svc.Load(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	require.NoError(t, svc.Invalidate(ctx, projectID))

	_, err = svc.Load(ctx, projectID)
	require.NoError(t, err)
}

func TestService_LoadErrors(t *testing.T) {
	type testCase struct {
		name    string
		docErr  error
		msErr   error
		wantErr string
	}

	tests := []testCase{
		{name: "documents fail", docErr: errors.New("boom"), wantErr: "listing documents"},
		{name: "milestones fail", msErr: errors.New("boom"), wantErr: "listing milestones"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			docs := snapshot.NewMockDocumentLister(ctrl)
			ms := snapshot.NewMockMilestoneLister(ctrl)
			c := cache.NewMemory[snapshot.Snapshot](0)
			svc := snapshot.NewService(docs, ms, c)

			projectID := uuid.New()
			docs.EXPECT().ListDocuments(gomock.Any(), projectID).Return(nil, tc.docErr)
			if tc.docErr == nil {
				ms.EXPECT().ListMilestones(gomock.Any(), projectID).Return(nil, tc.msErr)
			}

			_, err := svc.Load(context.Background(), projectID)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)

			_, ok, err := c.Get(context.Background(), projectID.String())
			require.NoError(t, err)
			assert.False(t, ok, "failed loads are not cached")
		})
	}
}

func TestService_LoadDoesNotCacheAcrossInvalidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	docs := snapshot.NewMockDocumentLister(ctrl)
	ms := snapshot.NewMockMilestoneLister(ctrl)
	svc := snapshot.NewService(docs, ms, cache.NewMemory[snapshot.Snapshot](0))

	ctx := context.Background()
	projectID := uuid.New()
	pending := &milestone.Milestone{ID: uuid.New(), ProjectID: projectID, Status: milestone.StatusPending}
	completed := *pending
	completed.Status = milestone.StatusCompleted

	docs.EXPECT().ListDocuments(gomock.Any(), projectID).Return(nil, nil).Times(2)
	gomock.InOrder(
		// A toggle commits and invalidates while the first load is reading.
		ms.EXPECT().ListMilestones(gomock.Any(), projectID).DoAndReturn(
			func(ctx context.Context, id uuid.UUID) ([]*milestone.Milestone, error) {
				require.NoError(t, svc.Invalidate(ctx, id))
				return []*milestone.Milestone{pending}, nil
			}),
		ms.EXPECT().ListMilestones(gomock.Any(), projectID).Return([]*milestone.Milestone{&completed}, nil),
	)

	first, err := svc.Load(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, milestone.StatusPending, first.Milestones[0].Status)

	second, err := svc.Load(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, milestone.StatusCompleted, second.Milestones[0].Status)
}
