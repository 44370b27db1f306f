package handler

import (
	"net/http"

	"github.com/drcompass/backend-go/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures all API routes
func SetupRouter(
	analysis *AnalysisHandler,
	incidents *IncidentHandler,
	topology *TopologyHandler,
	metrics *observability.Metrics,
	corsOrigin string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware(corsOrigin))
	r.Use(PrometheusMiddleware(metrics))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// DR analysis endpoints
	drGroup := r.Group("/api/dr")
	{
		drGroup.POST("/analyze", analysis.Analyze)
		drGroup.POST("/recovery-plan", analysis.RecoveryPlan)
		drGroup.GET("/score-trend", analysis.ScoreTrend)
	}

	// Incident endpoints
	incidentGroup := r.Group("/api/incidents")
	{
		incidentGroup.POST("/normalize", incidents.Normalize)
		incidentGroup.POST("/correlate", incidents.Correlate)
		incidentGroup.POST("/summary", incidents.Summary)
		incidentGroup.POST("/pull", incidents.Pull)
	}

	// Topology endpoints
	topoGroup := r.Group("/api/topology")
	{
		topoGroup.GET("/k8s", topology.GetK8sTopology)
		topoGroup.GET("/aws", topology.GetAWSTopology)
		topoGroup.GET("/combined", topology.GetCombinedTopology)
		topoGroup.GET("/snapshot", topology.GetSnapshot)
		topoGroup.POST("/refresh", topology.RefreshTopology)
	}

	return r
}
