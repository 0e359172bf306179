package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/regatta-results-api/internal/config"
	"github.com/JakeFAU/regatta-results-api/internal/metrics"
)

// Server wires HTTP handlers to the scraper.
type Server struct {
	router  chi.Router
	results *ResultsHandler
}

// NewServer constructs a Server with middleware and routes.
func NewServer(s Scraper, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &Server{
		results: NewResultsHandler(s, cfg.Entries.NormalizeFallback, logger.Named("results")),
	}
	assets := assetsFS(cfg.Server.StaticDir)

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(timeoutMiddleware(cfg.RequestTimeout()))

	r.Get("/healthz", srv.healthz)
	r.Get("/readyz", srv.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/races", srv.results.ListRaces)
	r.Get("/fields", srv.results.ListFields)
	r.Get("/entries", srv.results.ListEntries)

	r.Get("/", indexHandler(assets))
	r.Method(http.MethodGet, "/static/*", staticHandler(assets))

	srv.router = r
	return srv
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	// Nothing is held between requests, so the service is ready once it serves.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
