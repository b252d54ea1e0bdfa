package adapthttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"weightlog/internal/app"
	"weightlog/internal/config"
	"weightlog/internal/domain"
	"weightlog/internal/metrics"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	tracker  *app.Tracker
	pressure *app.PressureLog
	charts   *app.ChartsService
	display  config.DisplayConfig
	goals    domain.Goals
	metrics  *metrics.Manager
	registry *prometheus.Registry
	csvPath  string
	webDir   string
}

// New creates a Server wired to the given application services.
func New(cfg *config.Config, t *app.Tracker, p *app.PressureLog, cs *app.ChartsService, m *metrics.Manager, reg *prometheus.Registry) *Server {
	return &Server{
		tracker:  t,
		pressure: p,
		charts:   cs,
		display:  cfg.Display,
		goals:    cfg.Goals,
		metrics:  m,
		registry: reg,
		csvPath:  cfg.Storage.CSVPath,
		webDir:   cfg.Server.WebDir,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Use(s.loggingMiddleware)
		api.Use(s.metricsMiddleware)

		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})

		api.Route("/weight", func(weight chi.Router) {
			weight.Get("/entries", s.handleEntriesList)
			weight.Post("/entries", s.handleEntrySave)
			weight.Delete("/entries/{day}", s.handleEntryDelete)
			weight.Get("/summary", s.handleSummary)
			weight.Get("/trend", s.handleTrend)
			weight.Get("/export", s.handleExport)
			weight.Post("/import", s.handleImport)
			weight.Post("/save", s.handleSave)
		})

		api.Route("/pressure", func(pressure chi.Router) {
			pressure.Get("/readings", s.handleReadingsList)
			pressure.Post("/readings", s.handleReadingSave)
			pressure.Delete("/readings/{id}", s.handleReadingDelete)
			pressure.Get("/summary", s.handleReadingsSummary)
			pressure.Get("/export", s.handleReadingsExport)
		})

		api.Get("/charts/daily", s.handleChartsDaily)
		api.Get("/goals", s.handleGoals)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Handle("/*", spaFromDisk(s.webDir))

	return withNoCache(r)
}
