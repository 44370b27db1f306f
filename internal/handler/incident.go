package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/drcompass/backend-go/internal/discovery"
	"github.com/drcompass/backend-go/internal/domain"
	"github.com/drcompass/backend-go/internal/graph"
	"github.com/drcompass/backend-go/internal/incident"
	"github.com/drcompass/backend-go/internal/ingest"
	"github.com/drcompass/backend-go/internal/observability"
	"github.com/gin-gonic/gin"
)

// IncidentHandler handles incident normalization and correlation endpoints
type IncidentHandler struct {
	normalizer *incident.Normalizer
	correlator *incident.Correlator
	snapshots  *discovery.SnapshotManager
	sources    []ingest.Source
	metrics    *observability.Metrics
}

// NewIncidentHandler creates a new IncidentHandler
func NewIncidentHandler(
	normalizer *incident.Normalizer,
	correlator *incident.Correlator,
	snapshots *discovery.SnapshotManager,
	sources []ingest.Source,
	metrics *observability.Metrics,
) *IncidentHandler {
	return &IncidentHandler{
		normalizer: normalizer,
		correlator: correlator,
		snapshots:  snapshots,
		sources:    sources,
		metrics:    metrics,
	}
}

type normalizeRequest struct {
	Provider domain.Provider  `json:"provider" binding:"required"`
	Source   string           `json:"source" binding:"required"`
	Items    []map[string]any `json:"items"`
}

// Normalize converts provider-native event payloads to canonical incidents
func (h *IncidentHandler) Normalize(c *gin.Context) {
	var req normalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	incidents, recordErrs, err := h.normalizer.Normalize(req.Provider, req.Source, req.Items)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrUnknownMapping) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	h.metrics.RecordNormalization(string(req.Provider), len(incidents), len(recordErrs))
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"incidents": incidents,
		"count":     len(incidents),
		"errors":    recordErrs,
	})
}

type correlateRequest struct {
	Incidents []domain.Incident     `json:"incidents"`
	Nodes     []domain.ResourceNode `json:"nodes"`
	Edges     []domain.ResourceEdge `json:"edges"`
}

// resolveGraph prefers a graph submitted with the request, falling back to
// the latest discovery snapshot, then an empty graph
func (h *IncidentHandler) resolveGraph(nodes []domain.ResourceNode, edges []domain.ResourceEdge) *graph.ResourceGraph {
	if len(nodes) > 0 {
		return graph.New(nodes, edges)
	}
	if h.snapshots != nil {
		if snap, err := h.snapshots.Current(); err == nil {
			return snap.Graph
		}
	}
	return graph.New(nil, nil)
}

// Correlate groups related incidents using resource identity, time
// proximity, and graph adjacency
func (h *IncidentHandler) Correlate(c *gin.Context) {
	var req correlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	g := h.resolveGraph(req.Nodes, req.Edges)
	groups := h.correlator.Correlate(req.Incidents, g)
	h.metrics.RecordCorrelation(len(groups))

	c.JSON(http.StatusOK, gin.H{"success": true, "groups": groups, "count": len(groups)})
}

type summaryRequest struct {
	Incidents []domain.Incident     `json:"incidents"`
	Nodes     []domain.ResourceNode `json:"nodes"`
	Edges     []domain.ResourceEdge `json:"edges"`
}

// Summary aggregates incident counts by severity, provider, and resource type
func (h *IncidentHandler) Summary(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	g := h.resolveGraph(req.Nodes, req.Edges)
	summary := incident.Summarize(req.Incidents, g)

	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// Pull fetches raw events from configured sources and normalizes them
func (h *IncidentHandler) Pull(c *gin.Context) {
	if len(h.sources) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "No incident sources configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	incidents := []domain.Incident{}
	recordErrs := []incident.RecordError{}
	sourceErrs := []map[string]any{}

	for _, src := range h.sources {
		result := ingest.SafeFetch(ctx, src)
		if result.Error != nil {
			sourceErrs = append(sourceErrs, map[string]any{
				"source": result.SourceName,
				"error":  *result.Error,
			})
			continue
		}
		normalized, errs, err := h.normalizer.Normalize(result.Provider, result.Source, result.Items)
		if err != nil {
			sourceErrs = append(sourceErrs, map[string]any{
				"source": result.SourceName,
				"error":  err.Error(),
			})
			continue
		}
		h.metrics.RecordNormalization(string(result.Provider), len(normalized), len(errs))
		incidents = append(incidents, normalized...)
		recordErrs = append(recordErrs, errs...)
	}

	c.JSON(http.StatusOK, gin.H{
		"incidents":     incidents,
		"record_errors": recordErrs,
		"source_errors": sourceErrs,
		"fetched_at":    time.Now().UTC().Format(time.RFC3339),
	})
}
