package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResourceNodeJSON(t *testing.T) {
	owner := "platform-team"
	cost := 420.50
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	node := ResourceNode{
		ID:           "i-0abc123",
		Name:         "orders-db",
		Provider:     ProviderAWS,
		ResourceType: "rds",
		Region:       "us-east-1",
		Status:       StatusRunning,
		Tags:         map[string]string{TagCriticality: "critical"},
		Metadata:     map[string]any{MetadataBackup: BackupContinuous},
		MonthlyCost:  &cost,
		Owner:        &owner,
		CreatedAt:    &created,
	}

	data, err := json.Marshal(node)
	require.NoError(t, err)

	var decoded ResourceNode
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, node.ID, decoded.ID)
	assert.Equal(t, ProviderAWS, decoded.Provider)
	assert.Equal(t, "platform-team", *decoded.Owner)
	assert.Equal(t, 420.50, *decoded.MonthlyCost)
	assert.True(t, created.Equal(*decoded.CreatedAt))
}

func TestResourceEdgeJSON(t *testing.T) {
	edge := ResourceEdge{
		Source:   "web-1",
		Target:   "orders-db",
		Relation: RelationDependsOn,
	}

	data, err := json.Marshal(edge)
	require.NoError(t, err)

	var decoded ResourceEdge
	err = json.Unmarshal(data, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "web-1", decoded.Source)
	assert.Equal(t, "orders-db", decoded.Target)
	assert.Equal(t, RelationDependsOn, decoded.Relation)
}

func TestBackupStrategy(t *testing.T) {
	assert.Equal(t, BackupNone, ResourceNode{ID: "a"}.BackupStrategy())
	assert.Equal(t, BackupDaily, ResourceNode{
		ID:       "b",
		Metadata: map[string]any{MetadataBackup: BackupDaily},
	}.BackupStrategy())
	assert.Equal(t, BackupSnapshot, ResourceNode{
		ID:   "c",
		Tags: map[string]string{MetadataBackup: BackupSnapshot},
	}.BackupStrategy())
}

func TestReplicationMode(t *testing.T) {
	assert.Equal(t, ReplicationNone, ResourceNode{ID: "a"}.ReplicationMode())
	assert.Equal(t, ReplicationCrossRegion, ResourceNode{
		ID:       "b",
		Metadata: map[string]any{MetadataReplication: ReplicationCrossRegion},
	}.ReplicationMode())
}

func TestTaggedCritical(t *testing.T) {
	assert.False(t, ResourceNode{ID: "a"}.TaggedCritical())
	assert.True(t, ResourceNode{
		ID:   "b",
		Tags: map[string]string{TagCriticality: "critical"},
	}.TaggedCritical())
	assert.True(t, ResourceNode{
		ID:   "c",
		Tags: map[string]string{"critical": "true"},
	}.TaggedCritical())
	assert.True(t, ResourceNode{
		ID:       "d",
		Metadata: map[string]any{"critical": true},
	}.TaggedCritical())
	assert.False(t, ResourceNode{
		ID:   "e",
		Tags: map[string]string{TagCriticality: "low"},
	}.TaggedCritical())
}

func TestProviderValues(t *testing.T) {
	assert.Equal(t, Provider("aws"), ProviderAWS)
	assert.Equal(t, Provider("azure"), ProviderAzure)
	assert.Equal(t, Provider("gcp"), ProviderGCP)
	assert.Equal(t, Provider("kubernetes"), ProviderKubernetes)
}
