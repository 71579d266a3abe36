package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/archdesk/internal/metrics"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Get("/metrics", metrics.Handler().ServeHTTP)

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	count := testutil.CollectAndCount(metrics.HTTPRequestDuration, "archdesk_http_request_duration_seconds")
	assert.GreaterOrEqual(t, count, 1)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `path="/projects/{id}"`)
	assert.NotContains(t, rec.Body.String(), `path="/projects/a"`)
}

func TestRecordSnapshotLoad(t *testing.T) {
	before := testutil.ToFloat64(metrics.SnapshotLoads.WithLabelValues("hit"))

	metrics.RecordSnapshotLoad(true)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SnapshotLoads.WithLabelValues("hit")))
}
