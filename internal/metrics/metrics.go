// Package metrics exposes the engine's Prometheus counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OverrideSaves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibestats_override_saves_total",
		Help: "Number of manual overrides saved",
	})

	OverrideDeletes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibestats_override_deletes_total",
		Help: "Number of manual overrides deleted",
	})

	ImportedMonths = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibestats_imported_months_total",
		Help: "Number of months restored from CSV backups",
	})

	Simulations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vibestats_simulations_total",
		Help: "Number of simulated month resolutions",
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
