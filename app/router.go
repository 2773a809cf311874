package app

import (
	"net/http"

	"github.com/Black-And-White-Club/roster-bot/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newHTTPRouter builds the chi router with the health and metrics endpoints.
// Modules mount their own routes on it.
func newHTTPRouter(obs *observability.Observability) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if obs.Registry.Prometheus != nil {
		r.Handle("/metrics", promhttp.HandlerFor(obs.Registry.Prometheus, promhttp.HandlerOpts{}))
	}
	return r
}
