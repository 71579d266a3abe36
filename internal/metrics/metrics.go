// Package metrics exposes Prometheus instruments for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "archdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)

	SnapshotLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archdesk_snapshot_loads_total",
			Help: "Project snapshot loads by cache result",
		},
		[]string{"result"}, // hit, miss
	)

	ImportedConcepts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "archdesk_imported_concepts_total",
			Help: "Price list concepts parsed from imported files",
		},
	)
)

func RecordHTTPRequestDuration(method, path, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

func RecordSnapshotLoad(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}

	SnapshotLoads.WithLabelValues(result).Inc()
}

// Middleware observes request durations labelled by the chi route pattern,
// so path parameters do not explode the label set.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		pattern := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		RecordHTTPRequestDuration(r.Method, pattern, strconv.Itoa(status), time.Since(start))
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
