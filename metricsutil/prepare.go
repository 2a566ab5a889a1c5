package metricsutil

import (
	"net/http"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"

	"github.com/skycoin/portfwd/servermetrics"
)

// AddMetricsHandle adds a prometheus-format Handle at '/metrics' to the provided router.
// The output holds the process metrics followed by the forwarder metrics of m.
func AddMetricsHandle(r chi.Router, m servermetrics.Metrics) {
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		metrics.WritePrometheus(w, true)
		m.WritePrometheus(w)
	})
}
