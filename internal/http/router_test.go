package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/archdesk/internal/auth"
	archdeskHttp "github.com/MrJamesThe3rd/archdesk/internal/http"
	"github.com/MrJamesThe3rd/archdesk/internal/http/classify"
	"github.com/MrJamesThe3rd/archdesk/internal/http/document"
	"github.com/MrJamesThe3rd/archdesk/internal/http/export"
	"github.com/MrJamesThe3rd/archdesk/internal/http/milestone"
	"github.com/MrJamesThe3rd/archdesk/internal/http/overview"
	"github.com/MrJamesThe3rd/archdesk/internal/http/pricelist"
	"github.com/MrJamesThe3rd/archdesk/internal/http/project"
)

func newRouter(opts archdeskHttp.Options) http.Handler {
	return archdeskHttp.New(archdeskHttp.Handlers{
		Projects:   project.NewHandler(nil),
		Documents:  document.NewHandler(nil, nil, nil),
		Milestones: milestone.NewHandler(nil, nil, time.Now),
		Overview:   overview.NewHandler(nil, time.Now),
		Classify:   classify.NewHandler(nil),
		PriceLists: pricelist.NewHandler(nil),
		Export:     export.NewHandler(nil, time.Now),
	}, opts)
}

func TestRouter_Healthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(archdeskHttp.Options{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(archdeskHttp.Options{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "archdesk_imported_concepts_total")
}

func TestRouter_Auth(t *testing.T) {
	authn := auth.New("secret", time.Hour)
	router := newRouter(archdeskHttp.Options{Auth: authn.Middleware})

	type testCase struct {
		name     string
		target   string
		header   string
		wantCode int
	}

	token, err := authn.Issue("estudio")
	assert.NoError(t, err)

	tests := []testCase{
		{name: "api without token", target: "/api/v1/projects/", wantCode: http.StatusUnauthorized},
		{name: "bad id with token", target: "/api/v1/milestones/nope", header: "Bearer " + token, wantCode: http.StatusBadRequest},
		{name: "health is public", target: "/healthz", wantCode: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	router := newRouter(archdeskHttp.Options{AllowedOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/projects/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
