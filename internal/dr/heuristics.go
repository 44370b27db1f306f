package dr

import (
	"fmt"

	"github.com/drcompass/backend-go/internal/domain"
)

// recoveryMinutesByType holds per-resource-type recovery duration estimates
var recoveryMinutesByType = map[string]int{
	"rds":        45,
	"database":   45,
	"ec2":        20,
	"vm":         20,
	"deployment": 10,
	"pod":        5,
	"service":    5,
	"volume":     30,
	"storage":    30,
	"s3":         30,
	"dns":        15,
	"lb":         15,
	"vpc":        15,
	"subnet":     10,
}

const defaultRecoveryMinutes = 30

// rpoMinutesByBackup maps backup strategy to the worst-case data-loss
// window in minutes
var rpoMinutesByBackup = map[string]int{
	domain.BackupContinuous: 5,
	domain.BackupHourly:     60,
	domain.BackupSnapshot:   360,
	domain.BackupDaily:      1440,
	domain.BackupNone:       10080,
}

// EstimateRecoveryMinutes estimates how long the resource takes to recover.
// An explicit recovery_minutes metadata value wins over the type heuristic.
func EstimateRecoveryMinutes(n domain.ResourceNode) int {
	if v, ok := n.Metadata["recovery_minutes"]; ok {
		switch t := v.(type) {
		case float64:
			if t > 0 {
				return int(t)
			}
		case int:
			if t > 0 {
				return t
			}
		}
	}
	if m, ok := recoveryMinutesByType[n.ResourceType]; ok {
		return m
	}
	return defaultRecoveryMinutes
}

// EstimateRPOMinutes returns the worst-case data-loss window for the
// resource from its backup strategy
func EstimateRPOMinutes(n domain.ResourceNode) int {
	if v, ok := n.Metadata["rpo_minutes"]; ok {
		switch t := v.(type) {
		case float64:
			if t > 0 {
				return int(t)
			}
		case int:
			if t > 0 {
				return t
			}
		}
	}
	if m, ok := rpoMinutesByBackup[n.BackupStrategy()]; ok {
		return m
	}
	return rpoMinutesByBackup[domain.BackupNone]
}

// actionFor synthesizes the recovery action text for a resource from its
// type and backup/replication posture
func actionFor(n domain.ResourceNode) string {
	name := n.Name
	if name == "" {
		name = n.ID
	}
	kind := n.ResourceType
	if kind == "" {
		kind = "resource"
	}

	switch n.ReplicationMode() {
	case domain.ReplicationActiveActive:
		return fmt.Sprintf("Shift traffic for %s %s to the surviving active replica", kind, name)
	case domain.ReplicationCrossRegion:
		return fmt.Sprintf("Fail over %s %s to its cross-region replica", kind, name)
	}

	if strategy := n.BackupStrategy(); strategy != domain.BackupNone {
		return fmt.Sprintf("Restore %s %s from %s backup", kind, name, strategy)
	}
	return fmt.Sprintf("Recreate %s %s from configuration", kind, name)
}
