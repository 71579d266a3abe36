package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/archdesk/internal/http/classify"
	"github.com/MrJamesThe3rd/archdesk/internal/http/document"
	"github.com/MrJamesThe3rd/archdesk/internal/http/export"
	"github.com/MrJamesThe3rd/archdesk/internal/http/milestone"
	"github.com/MrJamesThe3rd/archdesk/internal/http/overview"
	"github.com/MrJamesThe3rd/archdesk/internal/http/pricelist"
	"github.com/MrJamesThe3rd/archdesk/internal/http/project"
	"github.com/MrJamesThe3rd/archdesk/internal/metrics"
)

type Handlers struct {
	Projects   *project.Handler
	Documents  *document.Handler
	Milestones *milestone.Handler
	Overview   *overview.Handler
	Classify   *classify.Handler
	PriceLists *pricelist.Handler
	Export     *export.Handler
}

type Options struct {
	AllowedOrigins []string
	// Auth guards /api/v1 when set.
	Auth func(http.Handler) http.Handler
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(metrics.Middleware)

	router.Handle("/metrics", metrics.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}

		r.Route("/projects", func(r chi.Router) {
			h.Projects.Routes(r)
			h.Documents.ProjectRoutes(r)
			h.Milestones.ProjectRoutes(r)
			h.Overview.ProjectRoutes(r)
			h.Export.ProjectRoutes(r)
		})

		r.Route("/documents", h.Documents.Routes)
		r.Route("/milestones", h.Milestones.Routes)
		r.Route("/classify", h.Classify.Routes)

		r.Route("/pricelists", func(r chi.Router) {
			r.Use(middleware.AllowContentType("multipart/form-data"))
			h.PriceLists.Routes(r)
		})
	})

	return router
}
