package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskmaster-api/internal/metrics"
	"github.com/BuzzLyutic/taskmaster-api/pkg/respond"
)

type healthStatus struct {
	Status string `json:"status"`
}

// NewRouter wires the task routes under /api/tasks. m may be nil to disable /metrics.
func NewRouter(h *TaskHandler, logger *zap.Logger, m *metrics.Metrics) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if m != nil {
		r.Use(m.Middleware)
	}
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger, h.production))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.Success(w, r, http.StatusOK, healthStatus{Status: "OK"}, "")
	})
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/api/tasks", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		// Static segment, matched ahead of /{id}.
		r.Get("/filter/by-status", h.ListByStatus)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	notFound := func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, http.StatusNotFound, "Endpoint not found")
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}
