package handler

import (
	"net/http"

	"integration-hub/pkg/logger"
	"integration-hub/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registrar adds its routes to a mux
type Registrar interface {
	Register(mux *http.ServeMux)
}

// NewRouter builds the service mux with the root, health and metrics
// endpoints plus every registrar's routes.
func NewRouter(m *metrics.Metrics, gatherer prometheus.Gatherer, log logger.Logger, registrars ...Registrar) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Integration hub is running"})
	})

	for _, r := range registrars {
		r.Register(mux)
	}

	return Instrument(mux, m, log)
}
