package observability

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Probe reports the live state shown on /healthz.
type Probe struct {
	Connected func() bool
	Accepting func() bool
}

type healthResponse struct {
	Connected bool `json:"connected"`
	Accepting bool `json:"accepting"`
}

// NewRouter serves the keepalive root, a health probe and the metrics.
// The root always answers 200, hosting platforms only check that the port is bound.
func NewRouter(log *slog.Logger, gatherer prometheus.Gatherer, probe Probe) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		resp := healthResponse{Connected: call(probe.Connected), Accepting: call(probe.Accepting)}
		status := http.StatusOK
		if !resp.Connected || !resp.Accepting {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Debug("Unable to write health response", "error", err)
		}
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

func call(f func() bool) bool {
	return f != nil && f()
}
