package dr

import (
	"testing"

	"github.com/drcompass/backend-go/internal/domain"
	"github.com/drcompass/backend-go/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainGraph() *graph.ResourceGraph {
	// a depends on b, b depends on c: recovery order must be c, b, a
	nodes := []domain.ResourceNode{
		{ID: "a", Name: "api", ResourceType: "deployment", Region: "us-east-1"},
		{ID: "b", Name: "queue", ResourceType: "service", Region: "us-east-1"},
		{ID: "c", Name: "db", ResourceType: "rds", Region: "us-east-1"},
	}
	edges := []domain.ResourceEdge{
		{Source: "a", Target: "b", Relation: domain.RelationDependsOn},
		{Source: "b", Target: "c", Relation: domain.RelationDependsOn},
	}
	return graph.New(nodes, edges)
}

func TestPlanSimpleChain(t *testing.T) {
	p := NewPlanner()
	plan, err := p.Plan(chainGraph(), domain.ScenarioRegionFailure, "us-east-1")
	require.NoError(t, err)

	require.Len(t, plan.Steps, 3)
	assert.Equal(t, "c", plan.Steps[0].ResourceID)
	assert.Equal(t, "b", plan.Steps[1].ResourceID)
	assert.Equal(t, "a", plan.Steps[2].ResourceID)

	for _, s := range plan.Steps {
		assert.False(t, s.Manual)
	}

	// chain RTO is the sum of all step durations
	sum := 0
	for _, s := range plan.Steps {
		sum += s.EstimatedMinutes
	}
	assert.Equal(t, sum, plan.RTOMinutes)

	require.Len(t, plan.Layers, 3)
	assert.Equal(t, []string{"c"}, plan.Layers[0])
	assert.Equal(t, []string{"b"}, plan.Layers[1])
	assert.Equal(t, []string{"a"}, plan.Layers[2])
}

func TestPlanDependsOnAlwaysBackward(t *testing.T) {
	nodes := []domain.ResourceNode{
		{ID: "n1", Region: "r"}, {ID: "n2", Region: "r"}, {ID: "n3", Region: "r"},
		{ID: "n4", Region: "r"}, {ID: "n5", Region: "r"},
	}
	edges := []domain.ResourceEdge{
		{Source: "n1", Target: "n2", Relation: domain.RelationDependsOn},
		{Source: "n1", Target: "n3", Relation: domain.RelationDependsOn},
		{Source: "n2", Target: "n4", Relation: domain.RelationDependsOn},
		{Source: "n3", Target: "n4", Relation: domain.RelationDependsOn},
		{Source: "n4", Target: "n5", Relation: domain.RelationDependsOn},
		// cycle between n2 and n3 on top of the DAG
		{Source: "n2", Target: "n3", Relation: domain.RelationDependsOn},
		{Source: "n3", Target: "n2", Relation: domain.RelationDependsOn},
	}
	g := graph.New(nodes, edges)

	p := NewPlanner()
	plan, err := p.Plan(g, domain.ScenarioRegionFailure, "r")
	require.NoError(t, err)
	require.Len(t, plan.Steps, 5)

	for _, s := range plan.Steps {
		for _, dep := range s.DependsOn {
			assert.Less(t, dep, s.Order, "step %d references dep %d", s.Order, dep)
		}
	}
}

func TestPlanMutualCycleBrokenDeterministically(t *testing.T) {
	nodes := []domain.ResourceNode{
		{ID: "alpha", Region: "r"},
		{ID: "beta", Region: "r"},
	}
	edges := []domain.ResourceEdge{
		{Source: "alpha", Target: "beta", Relation: domain.RelationDependsOn},
		{Source: "beta", Target: "alpha", Relation: domain.RelationDependsOn},
	}
	g := graph.New(nodes, edges)

	p := NewPlanner()
	plan, err := p.Plan(g, domain.ScenarioRegionFailure, "r")
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)

	// lowest id is force-emitted first and flagged manual
	assert.Equal(t, "alpha", plan.Steps[0].ResourceID)
	assert.True(t, plan.Steps[0].Manual)
	assert.Equal(t, "beta", plan.Steps[1].ResourceID)
	assert.False(t, plan.Steps[1].Manual)

	manual := 0
	for _, s := range plan.Steps {
		if s.Manual {
			manual++
		}
	}
	assert.Equal(t, 1, manual)
}

func TestPlanEmptyAffectedSet(t *testing.T) {
	p := NewPlanner()
	plan, err := p.Plan(chainGraph(), domain.ScenarioRegionFailure, "eu-north-1")
	require.NoError(t, err)

	assert.Empty(t, plan.AffectedResources)
	assert.Empty(t, plan.Steps)
	assert.Equal(t, 0, plan.RTOMinutes)
	assert.Equal(t, 0, plan.RPOMinutes)
}

func TestPlanUnknownScenario(t *testing.T) {
	p := NewPlanner()
	_, err := p.Plan(chainGraph(), "meteor_strike", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownScenario)
}

func TestPlanRegionDefaultsToLargest(t *testing.T) {
	nodes := []domain.ResourceNode{
		{ID: "a", Region: "big"},
		{ID: "b", Region: "big"},
		{ID: "c", Region: "small"},
	}
	g := graph.New(nodes, nil)

	p := NewPlanner()
	plan, err := p.Plan(g, domain.ScenarioRegionFailure, "")
	require.NoError(t, err)

	assert.Equal(t, "big", plan.Target)
	assert.ElementsMatch(t, []string{"a", "b"}, plan.AffectedResources)
}

func TestPlanServiceOutageClosure(t *testing.T) {
	// web and worker depend on db; cache is unrelated
	nodes := []domain.ResourceNode{
		{ID: "web", Region: "r"}, {ID: "worker", Region: "r"},
		{ID: "db", Region: "r"}, {ID: "cache", Region: "r"},
	}
	edges := []domain.ResourceEdge{
		{Source: "web", Target: "db", Relation: domain.RelationDependsOn},
		{Source: "worker", Target: "db", Relation: domain.RelationDependsOn},
	}
	g := graph.New(nodes, edges)

	p := NewPlanner()
	plan, err := p.Plan(g, domain.ScenarioServiceOutage, "db")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"db", "web", "worker"}, plan.AffectedResources)
	assert.Equal(t, "db", plan.Steps[0].ResourceID)

	_, err = p.Plan(g, domain.ScenarioServiceOutage, "")
	assert.Error(t, err)
}

func TestPlanDataCorruptionSelectsDataBearing(t *testing.T) {
	nodes := []domain.ResourceNode{
		{ID: "db", ResourceType: "rds", Region: "r"},
		{ID: "bucket", ResourceType: "s3", Region: "r"},
		{ID: "web", ResourceType: "ec2", Region: "r"},
	}
	g := graph.New(nodes, nil)

	p := NewPlanner()
	plan, err := p.Plan(g, domain.ScenarioDataCorruption, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"db", "bucket"}, plan.AffectedResources)
}

func TestPlanRPOFromBackupStrategy(t *testing.T) {
	nodes := []domain.ResourceNode{
		{
			ID: "db", ResourceType: "rds", Region: "r",
			Metadata: map[string]any{domain.MetadataBackup: domain.BackupContinuous},
		},
		{
			ID: "legacy", ResourceType: "database", Region: "r",
			Metadata: map[string]any{domain.MetadataBackup: domain.BackupDaily},
		},
	}
	g := graph.New(nodes, nil)

	p := NewPlanner()
	plan, err := p.Plan(g, domain.ScenarioRegionFailure, "r")
	require.NoError(t, err)

	// worst data-loss window across affected resources
	assert.Equal(t, 1440, plan.RPOMinutes)
}

func TestPlanActionMentionsReplicaFailover(t *testing.T) {
	nodes := []domain.ResourceNode{
		{
			ID: "db", Name: "orders", ResourceType: "rds", Region: "r",
			Metadata: map[string]any{domain.MetadataReplication: domain.ReplicationCrossRegion},
		},
	}
	g := graph.New(nodes, nil)

	p := NewPlanner()
	plan, err := p.Plan(g, domain.ScenarioRegionFailure, "r")
	require.NoError(t, err)
	require.Len(t, plan.Steps, 1)
	assert.Contains(t, plan.Steps[0].Action, "cross-region replica")
}

func TestPlanParallelLayers(t *testing.T) {
	// two independent services over one db recover in the same layer
	nodes := []domain.ResourceNode{
		{ID: "svc-a", Region: "r"}, {ID: "svc-b", Region: "r"}, {ID: "db", Region: "r"},
	}
	edges := []domain.ResourceEdge{
		{Source: "svc-a", Target: "db", Relation: domain.RelationDependsOn},
		{Source: "svc-b", Target: "db", Relation: domain.RelationDependsOn},
	}
	g := graph.New(nodes, edges)

	p := NewPlanner()
	plan, err := p.Plan(g, domain.ScenarioRegionFailure, "r")
	require.NoError(t, err)

	require.Len(t, plan.Layers, 2)
	assert.Equal(t, []string{"db"}, plan.Layers[0])
	assert.Equal(t, []string{"svc-a", "svc-b"}, plan.Layers[1])
}
