package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/muhammadchandra19/flashsale/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
)

// NewRouter mounts the API routes behind the shared middleware chain. The health
// middleware answers /health and /ready before any route matching.
func NewRouter(h *Handler, health healthcheck.HealthCheck, log logger.Interface) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(ClientIP)
	r.Use(RequestLogger(log))
	r.Use(health.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/purchase", h.Purchase)
		r.Get("/items/{id}/stock", h.GetStock)
	})

	return r
}
