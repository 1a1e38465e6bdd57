package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"realtyref/internal/platform/metrics"
	"realtyref/internal/platform/middleware"
)

// NewRouter builds the stub server's router: shared middleware, the contract
// endpoints and /metrics.
func NewRouter(h *Handler, tokens middleware.TokenValidator, logger *slog.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Latency(m))

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	h.Register(r, middleware.RequireToken(tokens, logger))
	return r
}
