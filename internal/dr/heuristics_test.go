package dr

import (
	"testing"

	"github.com/drcompass/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEstimateRecoveryMinutes(t *testing.T) {
	assert.Equal(t, 45, EstimateRecoveryMinutes(domain.ResourceNode{ResourceType: "rds"}))
	assert.Equal(t, 5, EstimateRecoveryMinutes(domain.ResourceNode{ResourceType: "pod"}))
	assert.Equal(t, 30, EstimateRecoveryMinutes(domain.ResourceNode{ResourceType: "mainframe"}))
}

func TestEstimateRecoveryMinutesMetadataOverride(t *testing.T) {
	n := domain.ResourceNode{
		ResourceType: "rds",
		Metadata:     map[string]any{"recovery_minutes": float64(90)},
	}
	assert.Equal(t, 90, EstimateRecoveryMinutes(n))

	// A non-positive override falls back to the type heuristic
	n.Metadata["recovery_minutes"] = float64(0)
	assert.Equal(t, 45, EstimateRecoveryMinutes(n))
}

func TestEstimateRPOMinutes(t *testing.T) {
	withBackup := func(strategy string) domain.ResourceNode {
		return domain.ResourceNode{Metadata: map[string]any{domain.MetadataBackup: strategy}}
	}

	assert.Equal(t, 5, EstimateRPOMinutes(withBackup(domain.BackupContinuous)))
	assert.Equal(t, 60, EstimateRPOMinutes(withBackup(domain.BackupHourly)))
	assert.Equal(t, 1440, EstimateRPOMinutes(withBackup(domain.BackupDaily)))
	assert.Equal(t, 10080, EstimateRPOMinutes(domain.ResourceNode{}))
}

func TestActionFor(t *testing.T) {
	assert.Contains(t, actionFor(domain.ResourceNode{
		Name:         "orders-db",
		ResourceType: "rds",
		Metadata:     map[string]any{domain.MetadataReplication: domain.ReplicationActiveActive},
	}), "surviving active replica")

	assert.Contains(t, actionFor(domain.ResourceNode{
		Name:         "orders-db",
		ResourceType: "rds",
		Metadata:     map[string]any{domain.MetadataReplication: domain.ReplicationCrossRegion},
	}), "cross-region replica")

	assert.Contains(t, actionFor(domain.ResourceNode{
		Name:         "orders-db",
		ResourceType: "rds",
		Metadata:     map[string]any{domain.MetadataBackup: domain.BackupDaily},
	}), "from daily backup")

	// No replication, no backup: recreate from configuration
	assert.Contains(t, actionFor(domain.ResourceNode{ID: "web-1", ResourceType: "ec2"}), "Recreate")
}
