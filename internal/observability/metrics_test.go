package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsFields(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	assert.NotNil(t, m.AnalysesTotal)
	assert.NotNil(t, m.AnalysisDurationSeconds)
	assert.NotNil(t, m.IncidentsNormalizedTotal)
	assert.NotNil(t, m.CorrelationGroupsTotal)
	assert.NotNil(t, m.DiscoveredResources)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
}

func TestRecordAnalysis(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	// Should not panic
	m.RecordAnalysis("analyze", "success", 0.02)
	m.RecordAnalysis("recovery_plan", "error", 0.001)
}

func TestRecordNormalizationAndCorrelation(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	// Should not panic
	m.RecordNormalization("aws", 10, 2)
	m.RecordCorrelation(3)
	m.RecordSnapshot(map[string]int{"aws": 5, "kubernetes": 12})
}
