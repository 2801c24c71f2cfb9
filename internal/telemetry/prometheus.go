package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusExporter exposes a telemetry Registry's counters as Prometheus
// gauges for a /metrics endpoint.
type PrometheusExporter struct {
	registry *Registry

	calls      *prometheus.GaugeVec
	successes  *prometheus.GaugeVec
	failures   *prometheus.GaugeVec
	cacheHits  *prometheus.GaugeVec
	latencyMs  *prometheus.GaugeVec
}

// NewPrometheusExporter registers integration-health gauges against promReg.
func NewPrometheusExporter(telemetryReg *Registry, promReg prometheus.Registerer) *PrometheusExporter {
	e := &PrometheusExporter{
		registry: telemetryReg,
		calls: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sharpline_integration_calls_total",
			Help: "Total outbound calls per provider.",
		}, []string{"provider"}),
		successes: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sharpline_integration_successes_total",
			Help: "Successful outbound calls per provider.",
		}, []string{"provider"}),
		failures: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sharpline_integration_failures_total",
			Help: "Failed outbound calls per provider.",
		}, []string{"provider"}),
		cacheHits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sharpline_integration_cache_hits_total",
			Help: "Cache hits per provider.",
		}, []string{"provider"}),
		latencyMs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sharpline_integration_mean_latency_ms",
			Help: "Mean outbound call latency per provider, in milliseconds.",
		}, []string{"provider"}),
	}
	promReg.MustRegister(e.calls, e.successes, e.failures, e.cacheHits, e.latencyMs)
	return e
}

// Refresh re-exports the registry's current snapshot to the gauges. Callers
// invoke this after each slate request completes.
func (e *PrometheusExporter) Refresh() {
	for provider, h := range e.registry.Snapshot() {
		e.calls.WithLabelValues(provider).Set(float64(h.Called))
		e.successes.WithLabelValues(provider).Set(float64(h.Succeeded))
		e.failures.WithLabelValues(provider).Set(float64(h.Failed))
		e.cacheHits.WithLabelValues(provider).Set(float64(h.CacheHits))
		e.latencyMs.WithLabelValues(provider).Set(h.MeanLatencyMs())
	}
}
