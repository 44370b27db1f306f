package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/drcompass/backend-go/internal/domain"
	"github.com/drcompass/backend-go/internal/dr"
	"github.com/drcompass/backend-go/internal/graph"
	"github.com/drcompass/backend-go/internal/incident"
	"github.com/drcompass/backend-go/internal/observability"
	"github.com/drcompass/backend-go/internal/store"
	"github.com/gin-gonic/gin"
)

// AnalysisHandler handles DR posture analysis and recovery planning
type AnalysisHandler struct {
	planner *dr.Planner
	store   store.Store
	metrics *observability.Metrics
	idgen   incident.IDGenerator
}

// NewAnalysisHandler creates a new AnalysisHandler
func NewAnalysisHandler(st store.Store, metrics *observability.Metrics, idgen incident.IDGenerator) *AnalysisHandler {
	return &AnalysisHandler{
		planner: dr.NewPlanner(),
		store:   st,
		metrics: metrics,
		idgen:   idgen,
	}
}

// graphRequest is the resource graph portion shared by analysis requests
type graphRequest struct {
	Nodes []domain.ResourceNode `json:"nodes"`
	Edges []domain.ResourceEdge `json:"edges"`
}

type analyzeRequest struct {
	graphRequest
	Weights    *domain.DRScoringWeights `json:"weights"`
	PlanExists bool                     `json:"plan_exists"`
}

// Analyze scores the DR posture of a submitted resource graph
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	weights := domain.DefaultScoringWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}

	start := time.Now()
	g := graph.New(req.Nodes, req.Edges)
	analysis := dr.NewAnalyzer(weights, nil).Analyze(g, req.PlanExists)
	h.metrics.RecordAnalysis("analyze", "success", time.Since(start).Seconds())

	if err := h.store.SaveAnalysis(c.Request.Context(), store.AnalysisRecord{
		ID:            h.idgen.NewID(),
		Score:         analysis.Score,
		Grade:         string(analysis.Grade),
		ResourceCount: analysis.ResourceCount,
		SPOFCount:     len(analysis.SPOFs),
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("Failed to persist analysis: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": analysis})
}

type planRequest struct {
	graphRequest
	Scenario domain.FailureScenario `json:"scenario" binding:"required"`
	Target   string                 `json:"target"`
}

// RecoveryPlan produces an ordered recovery plan for a failure scenario
func (h *AnalysisHandler) RecoveryPlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	start := time.Now()
	g := graph.New(req.Nodes, req.Edges)
	plan, err := h.planner.Plan(g, req.Scenario, req.Target)
	if err != nil {
		h.metrics.RecordAnalysis("recovery_plan", "error", time.Since(start).Seconds())
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrUnknownScenario) || errors.Is(err, domain.ErrMissingField) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}
	h.metrics.RecordAnalysis("recovery_plan", "success", time.Since(start).Seconds())

	c.JSON(http.StatusOK, gin.H{"success": true, "plan": plan})
}

// ScoreTrend returns persisted posture scores over a period
func (h *AnalysisHandler) ScoreTrend(c *gin.Context) {
	daysStr := c.DefaultQuery("days", "30")
	days, err := strconv.Atoi(daysStr)
	if err != nil || days < 1 || days > 365 {
		days = 30
	}

	since := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	records, err := h.store.ListAnalysesSince(c.Request.Context(), since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	trend := make([]map[string]any, 0, len(records))
	for _, r := range records {
		trend = append(trend, map[string]any{
			"id":             r.ID,
			"score":          r.Score,
			"grade":          r.Grade,
			"resource_count": r.ResourceCount,
			"spof_count":     r.SPOFCount,
			"created_at":     r.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"trend":       trend,
		"count":       len(trend),
		"period_days": days,
	})
}
