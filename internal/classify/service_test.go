package classify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/archdesk/internal/classify"
	"github.com/MrJamesThe3rd/archdesk/internal/document"
)

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := classify.NewMockRepository(ctrl)
	svc := classify.NewService(repo)

	rule := &classify.Rule{Pattern: "alzado", Type: document.TypePlan, Folder: "planos/alzados"}
	repo.EXPECT().FindRule(gomock.Any(), "Alzado norte.dwg").Return(rule, nil)

	got, err := svc.Suggest(context.Background(), "  Alzado norte.dwg ")
	require.NoError(t, err)
	assert.Equal(t, rule, got)

	got, err = svc.Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_Learn(t *testing.T) {
	type testCase struct {
		name    string
		pattern string
		typ     document.Type
		folder  string
		want    *classify.Rule
		wantErr error
	}

	tests := []testCase{
		{
			name:    "stores trimmed rule",
			pattern: " presupuesto ",
			typ:     document.TypeBudget,
			folder:  "/economico/",
			want:    &classify.Rule{Pattern: "presupuesto", Type: document.TypeBudget, Folder: "economico"},
		},
		{
			name:    "empty pattern",
			pattern: " ",
			typ:     document.TypePlan,
			wantErr: classify.ErrEmptyPattern,
		},
		{
			name:    "unknown type",
			pattern: "foto",
			typ:     "video",
			wantErr: document.ErrInvalidType,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := classify.NewMockRepository(ctrl)
			svc := classify.NewService(repo)

			if tc.wantErr == nil {
				repo.EXPECT().CreateRule(gomock.Any(), tc.want).Return(nil)
			}

			got, err := svc.Learn(context.Background(), tc.pattern, tc.typ, tc.folder)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
