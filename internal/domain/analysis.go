package domain

// DRScoringWeights holds the relative weight of each posture signal.
// Weights do not need to sum to 1; the analyzer normalizes by their sum.
type DRScoringWeights struct {
	BackupCoverage     float64 `json:"backup_coverage"`
	ReplicationBreadth float64 `json:"replication_breadth"`
	SPOFPenalty        float64 `json:"spof_penalty"`
	CrossRegion        float64 `json:"cross_region"`
	PlanExistence      float64 `json:"plan_existence"`
}

// DefaultScoringWeights returns the weight set used when a request
// omits weights
func DefaultScoringWeights() DRScoringWeights {
	return DRScoringWeights{
		BackupCoverage:     0.30,
		ReplicationBreadth: 0.25,
		SPOFPenalty:        0.20,
		CrossRegion:        0.15,
		PlanExistence:      0.10,
	}
}

// Sum returns the total of all weights
func (w DRScoringWeights) Sum() float64 {
	return w.BackupCoverage + w.ReplicationBreadth + w.SPOFPenalty + w.CrossRegion + w.PlanExistence
}

// Grade is the letter grade derived from the overall score
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// GradeForScore maps a score to its letter grade.
// The thresholds are a contract, not tunable per call.
func GradeForScore(score float64) Grade {
	switch {
	case score >= 90:
		return GradeA
	case score >= 75:
		return GradeB
	case score >= 60:
		return GradeC
	case score >= 40:
		return GradeD
	default:
		return GradeF
	}
}

// RiskLevel classifies a finding
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RegionRisk describes the failure exposure of a single region
type RegionRisk struct {
	Region        string    `json:"region"`
	Provider      Provider  `json:"provider"`
	CriticalCount int       `json:"critical_count"`
	TotalCount    int       `json:"total_count"`
	HasFailover   bool      `json:"has_failover"`
	Risk          RiskLevel `json:"risk"`
}

// EffortLevel estimates the work required for a recommendation
type EffortLevel string

const (
	EffortLow    EffortLevel = "low"
	EffortMedium EffortLevel = "medium"
	EffortHigh   EffortLevel = "high"
)

// Recommendation is a rule-triggered remediation suggestion
type Recommendation struct {
	Severity          RiskLevel   `json:"severity"`
	Category          string      `json:"category"`
	Description       string      `json:"description"`
	AffectedResources []string    `json:"affected_resources,omitempty"`
	CostEstimate      *float64    `json:"cost_estimate,omitempty"`
	Effort            EffortLevel `json:"effort"`
}

// DRAnalysis is the full posture analysis result
type DRAnalysis struct {
	Score               float64          `json:"score"`
	Grade               Grade            `json:"grade"`
	RegionRisks         []RegionRisk     `json:"region_risks"`
	UnprotectedCritical []string         `json:"unprotected_critical"`
	RecoveryTimeMinutes map[string]int   `json:"recovery_time_minutes"`
	Recommendations     []Recommendation `json:"recommendations"`
	SPOFs               []string         `json:"spofs,omitempty"`
	ResourceCount       int              `json:"resource_count"`
}
