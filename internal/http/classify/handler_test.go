package classify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/archdesk/internal/classify"
	"github.com/MrJamesThe3rd/archdesk/internal/document"
	classifyHandler "github.com/MrJamesThe3rd/archdesk/internal/http/classify"
)

func newRouter(t *testing.T) (http.Handler, *classify.MockRepository) {
	t.Helper()

	repo := classify.NewMockRepository(gomock.NewController(t))
	h := classifyHandler.NewHandler(classify.NewService(repo))

	r := chi.NewRouter()
	r.Route("/classify", h.Routes)

	return r, repo
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func TestHandler_Suggest(t *testing.T) {
	type testCase struct {
		name     string
		query    string
		setup    func(repo *classify.MockRepository)
		wantCode int
		wantType string
	}

	tests := []testCase{
		{
			name:  "match",
			query: "?name=Alzado+norte.pdf",
			setup: func(repo *classify.MockRepository) {
				repo.EXPECT().FindRule(gomock.Any(), "Alzado norte.pdf").
					Return(&classify.Rule{Pattern: "alzado", Type: document.TypePlan}, nil)
			},
			wantCode: http.StatusOK,
			wantType: "plano",
		},
		{
			name:  "no match",
			query: "?name=notas.txt",
			setup: func(repo *classify.MockRepository) {
				repo.EXPECT().FindRule(gomock.Any(), "notas.txt").Return(nil, nil)
			},
			wantCode: http.StatusNoContent,
		},
		{name: "blank name", query: "", wantCode: http.StatusNoContent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, repo := newRouter(t)
			if tc.setup != nil {
				tc.setup(repo)
			}

			rec := do(h, http.MethodGet, "/classify/suggest"+tc.query, "")
			require.Equal(t, tc.wantCode, rec.Code)

			if tc.wantType == "" {
				return
			}

			var got struct {
				Type string `json:"type"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tc.wantType, got.Type)
		})
	}
}

func TestHandler_Learn(t *testing.T) {
	type testCase struct {
		name     string
		body     string
		setup    func(repo *classify.MockRepository)
		wantCode int
	}

	tests := []testCase{
		{
			name: "learned",
			body: `{"pattern":"presupuesto","type":"presupuesto","folder":"/economico/"}`,
			setup: func(repo *classify.MockRepository) {
				repo.EXPECT().CreateRule(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, r *classify.Rule) error {
						assert.Equal(t, "economico", r.Folder)
						return nil
					})
			},
			wantCode: http.StatusCreated,
		},
		{name: "empty pattern", body: `{"pattern":"","type":"plano"}`, wantCode: http.StatusBadRequest},
		{name: "unknown type", body: `{"pattern":"x","type":"blueprint"}`, wantCode: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, repo := newRouter(t)
			if tc.setup != nil {
				tc.setup(repo)
			}

			rec := do(h, http.MethodPost, "/classify/", tc.body)
			assert.Equal(t, tc.wantCode, rec.Code, rec.Body.String())
		})
	}
}
