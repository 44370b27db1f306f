package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metric instruments
type Metrics struct {
	AnalysesTotal            *prometheus.CounterVec
	AnalysisDurationSeconds  *prometheus.HistogramVec
	IncidentsNormalizedTotal *prometheus.CounterVec
	CorrelationGroupsTotal   prometheus.Counter
	DiscoveredResources      *prometheus.GaugeVec
	HTTPRequestsTotal        *prometheus.CounterVec
	HTTPRequestDuration      *prometheus.HistogramVec
}

// NewMetrics registers all metrics with the default registerer
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers all metrics with reg
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AnalysesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "drcompass_analyses_total",
			Help: "Total number of analysis operations",
		}, []string{"operation", "status"}),

		AnalysisDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "drcompass_analysis_duration_seconds",
			Help:    "Duration of analysis operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),

		IncidentsNormalizedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "drcompass_incidents_normalized_total",
			Help: "Total incident records processed by normalization",
		}, []string{"provider", "outcome"}),

		CorrelationGroupsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "drcompass_correlation_groups_total",
			Help: "Total correlation groups produced",
		}),

		DiscoveredResources: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "drcompass_discovered_resources",
			Help: "Resources in the latest discovery snapshot",
		}, []string{"provider"}),

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "drcompass_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status_code"}),

		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "drcompass_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
		}, []string{"method", "path"}),
	}
}

// RecordAnalysis records one analysis operation
func (m *Metrics) RecordAnalysis(operation, status string, duration float64) {
	m.AnalysesTotal.WithLabelValues(operation, status).Inc()
	m.AnalysisDurationSeconds.WithLabelValues(operation).Observe(duration)
}

// RecordNormalization records normalization outcomes for a provider batch
func (m *Metrics) RecordNormalization(provider string, ok, failed int) {
	m.IncidentsNormalizedTotal.WithLabelValues(provider, "ok").Add(float64(ok))
	m.IncidentsNormalizedTotal.WithLabelValues(provider, "failed").Add(float64(failed))
}

// RecordCorrelation records the number of groups a correlation pass produced
func (m *Metrics) RecordCorrelation(groups int) {
	m.CorrelationGroupsTotal.Add(float64(groups))
}

// RecordSnapshot records per-provider resource counts from a discovery pass
func (m *Metrics) RecordSnapshot(countsByProvider map[string]int) {
	for provider, count := range countsByProvider {
		m.DiscoveredResources.WithLabelValues(provider).Set(float64(count))
	}
}
