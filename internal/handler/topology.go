package handler

import (
	"net/http"
	"time"

	"github.com/drcompass/backend-go/internal/discovery"
	"github.com/drcompass/backend-go/internal/domain"
	"github.com/drcompass/backend-go/internal/observability"
	"github.com/gin-gonic/gin"
)

// TopologyHandler serves discovered resource topology
type TopologyHandler struct {
	snapshots *discovery.SnapshotManager
	metrics   *observability.Metrics
}

// NewTopologyHandler creates a new TopologyHandler
func NewTopologyHandler(snapshots *discovery.SnapshotManager, metrics *observability.Metrics) *TopologyHandler {
	return &TopologyHandler{snapshots: snapshots, metrics: metrics}
}

// topologyByProvider returns nodes and edges for one provider from the
// latest snapshot
func (h *TopologyHandler) topologyByProvider(c *gin.Context, provider domain.Provider) {
	snap, err := h.snapshots.Current()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
		return
	}

	sub := snap.Graph.Filter(func(n domain.ResourceNode) bool {
		return n.Provider == provider
	})
	c.JSON(http.StatusOK, gin.H{
		"nodes":       sub.Nodes(),
		"edges":       sub.Edges(),
		"captured_at": snap.CapturedAt.Format(time.RFC3339),
	})
}

// GetK8sTopology returns Kubernetes resources from the latest snapshot
func (h *TopologyHandler) GetK8sTopology(c *gin.Context) {
	h.topologyByProvider(c, domain.ProviderKubernetes)
}

// GetAWSTopology returns AWS resources from the latest snapshot
func (h *TopologyHandler) GetAWSTopology(c *gin.Context) {
	h.topologyByProvider(c, domain.ProviderAWS)
}

// GetCombinedTopology returns the full merged snapshot graph
func (h *TopologyHandler) GetCombinedTopology(c *gin.Context) {
	snap, err := h.snapshots.Current()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nodes":       snap.Graph.Nodes(),
		"edges":       snap.Graph.Edges(),
		"regions":     snap.Graph.ByRegion(),
		"captured_at": snap.CapturedAt.Format(time.RFC3339),
	})
}

// GetSnapshot returns snapshot metadata including per-provider errors
func (h *TopologyHandler) GetSnapshot(c *gin.Context) {
	snap, err := h.snapshots.Current()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"resource_count": snap.Graph.Len(),
		"errors":         snap.Errors,
		"captured_at":    snap.CapturedAt.Format(time.RFC3339),
	})
}

// RefreshTopology runs a discovery pass and swaps in the new snapshot
func (h *TopologyHandler) RefreshTopology(c *gin.Context) {
	snap := h.snapshots.Refresh(c.Request.Context())

	counts := map[string]int{}
	for _, n := range snap.Graph.Nodes() {
		counts[string(n.Provider)]++
	}
	h.metrics.RecordSnapshot(counts)

	c.JSON(http.StatusOK, gin.H{
		"resource_count": snap.Graph.Len(),
		"errors":         snap.Errors,
		"captured_at":    snap.CapturedAt.Format(time.RFC3339),
	})
}
