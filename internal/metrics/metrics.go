// Package metrics exposes Prometheus collectors for extraction runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "routelens"

// Metrics records extraction activity. A nil *Metrics discards everything,
// so callers never need to check before recording.
type Metrics struct {
	registry *prometheus.Registry

	filesScanned  *prometheus.CounterVec
	parseFailures *prometheus.CounterVec
	routesFound   *prometheus.GaugeVec
	runDuration   *prometheus.HistogramVec
	refreshes     *prometheus.CounterVec
}

// New registers the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		filesScanned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_scanned_total",
			Help:      "Source files handed to an extractor.",
		}, []string{"framework"}),
		parseFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_failures_total",
			Help:      "Files that could not be read or parsed.",
		}, []string{"framework"}),
		routesFound: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "routes",
			Help:      "Routes found by the last full run.",
		}, []string{"framework"}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of full extraction runs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"framework"}),
		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Index refreshes by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) FileScanned(framework string) {
	if m == nil {
		return
	}
	m.filesScanned.WithLabelValues(framework).Inc()
}

func (m *Metrics) ParseFailed(framework string) {
	if m == nil {
		return
	}
	m.parseFailures.WithLabelValues(framework).Inc()
}

// RunFinished records a completed full run.
func (m *Metrics) RunFinished(framework string, routes int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.routesFound.WithLabelValues(framework).Set(float64(routes))
	m.runDuration.WithLabelValues(framework).Observe(elapsed.Seconds())
}

// Refreshed counts a refresh outcome: "ok", "superseded" or "error".
func (m *Metrics) Refreshed(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
