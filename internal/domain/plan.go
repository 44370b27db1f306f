package domain

// FailureScenario identifies the failure mode a recovery plan covers
type FailureScenario string

const (
	ScenarioRegionFailure  FailureScenario = "region_failure"
	ScenarioAZFailure      FailureScenario = "az_failure"
	ScenarioServiceOutage  FailureScenario = "service_outage"
	ScenarioDataCorruption FailureScenario = "data_corruption"
)

// KnownScenario reports whether s is a recognised failure scenario
func KnownScenario(s FailureScenario) bool {
	switch s {
	case ScenarioRegionFailure, ScenarioAZFailure, ScenarioServiceOutage, ScenarioDataCorruption:
		return true
	}
	return false
}

// RecoveryStep is one ordered action in a recovery plan.
// DependsOn indices always reference steps with strictly smaller Order;
// Manual marks steps whose ordering could not be resolved automatically.
type RecoveryStep struct {
	Order            int    `json:"order"`
	Action           string `json:"action"`
	ResourceID       string `json:"resource_id"`
	ResourceName     string `json:"resource_name"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	DependsOn        []int  `json:"depends_on,omitempty"`
	Manual           bool   `json:"manual"`
}

// RecoveryPlan is a dependency-ordered recovery sequence for a failure
// scenario. Layers group step resource ids that can recover in parallel.
type RecoveryPlan struct {
	Scenario          FailureScenario `json:"scenario"`
	Target            string          `json:"target,omitempty"`
	AffectedResources []string        `json:"affected_resources"`
	Steps             []RecoveryStep  `json:"steps"`
	RTOMinutes        int             `json:"rto_minutes"`
	RPOMinutes        int             `json:"rpo_minutes"`
	Layers            [][]string      `json:"layers"`
}
