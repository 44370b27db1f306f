package graph

import (
	"testing"

	"github.com/drcompass/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNodes() []domain.ResourceNode {
	return []domain.ResourceNode{
		{ID: "web-1", Provider: domain.ProviderAWS, ResourceType: "ec2", Region: "us-east-1"},
		{ID: "db-1", Provider: domain.ProviderAWS, ResourceType: "rds", Region: "us-east-1"},
		{ID: "db-replica", Provider: domain.ProviderAWS, ResourceType: "rds", Region: "us-west-2"},
	}
}

func testEdges() []domain.ResourceEdge {
	return []domain.ResourceEdge{
		{Source: "web-1", Target: "db-1", Relation: domain.RelationDependsOn},
		{Source: "db-1", Target: "db-replica", Relation: domain.RelationReplicatesTo},
		{Source: "web-1", Target: "ghost", Relation: domain.RelationDependsOn},
	}
}

func TestNewGraph(t *testing.T) {
	g := New(testNodes(), testEdges())

	assert.Equal(t, 3, g.Len())

	n, ok := g.Node("db-1")
	require.True(t, ok)
	assert.Equal(t, "rds", n.ResourceType)

	_, ok = g.Node("ghost")
	assert.False(t, ok)
}

func TestDanglingEdgesExcludedFromTraversal(t *testing.T) {
	g := New(testNodes(), testEdges())

	dangling := g.DanglingEdges()
	require.Len(t, dangling, 1)
	assert.Equal(t, "ghost", dangling[0].Target)

	// The dangling edge never appears in adjacency results
	out := g.OutEdges("web-1", "")
	require.Len(t, out, 1)
	assert.Equal(t, "db-1", out[0].Target)
}

func TestNeighborsByRelation(t *testing.T) {
	g := New(testNodes(), testEdges())

	replicas := g.Neighbors("db-1", domain.RelationReplicatesTo)
	require.Len(t, replicas, 1)
	assert.Equal(t, "db-replica", replicas[0].ID)

	assert.Empty(t, g.Neighbors("db-1", domain.RelationDependsOn))

	deps := g.Dependents("db-1", domain.RelationDependsOn)
	require.Len(t, deps, 1)
	assert.Equal(t, "web-1", deps[0].ID)
}

func TestDuplicateNodeFirstWins(t *testing.T) {
	nodes := []domain.ResourceNode{
		{ID: "a", Name: "first"},
		{ID: "a", Name: "second"},
	}
	g := New(nodes, nil)

	assert.Equal(t, 1, g.Len())
	n, _ := g.Node("a")
	assert.Equal(t, "first", n.Name)
}

func TestFilter(t *testing.T) {
	g := New(testNodes(), testEdges())

	east := g.Filter(func(n domain.ResourceNode) bool {
		return n.Region == "us-east-1"
	})

	assert.Equal(t, 2, east.Len())
	// replicates-to edge lost its target, becomes dangling in the subgraph
	assert.Empty(t, east.Neighbors("db-1", domain.RelationReplicatesTo))
	require.Len(t, east.OutEdges("web-1", ""), 1)
}

func TestByRegion(t *testing.T) {
	g := New(testNodes(), testEdges())

	regions := g.ByRegion()
	assert.Len(t, regions, 2)
	assert.ElementsMatch(t, []string{"web-1", "db-1"}, regions["us-east-1"])
	assert.Equal(t, []string{"db-replica"}, regions["us-west-2"])
}

func TestWithinHops(t *testing.T) {
	g := New(testNodes(), testEdges())

	assert.True(t, g.WithinHops("web-1", "db-1", 1))
	assert.True(t, g.WithinHops("web-1", "db-replica", 2))
	assert.False(t, g.WithinHops("web-1", "db-replica", 1))
	// undirected: replica reaches web-1 going against edge direction
	assert.True(t, g.WithinHops("db-replica", "web-1", 2))
	assert.False(t, g.WithinHops("web-1", "ghost", 5))
	assert.True(t, g.WithinHops("db-1", "db-1", 0))
}

func TestEmptyGraph(t *testing.T) {
	g := New(nil, nil)
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Nodes())
	assert.Empty(t, g.DanglingEdges())
	assert.False(t, g.WithinHops("a", "b", 3))
}

func TestImmutableInput(t *testing.T) {
	nodes := testNodes()
	edges := testEdges()
	g := New(nodes, edges)

	nodes[0].ID = "mutated"
	edges[0].Target = "mutated"

	_, ok := g.Node("web-1")
	assert.True(t, ok)
	out := g.OutEdges("web-1", domain.RelationDependsOn)
	require.Len(t, out, 1)
	assert.Equal(t, "db-1", out[0].Target)
}
