// Package graph provides an immutable snapshot of resource nodes and
// relationship edges with adjacency lookups. Edges whose endpoints do not
// resolve to known nodes are retained but excluded from traversal.
package graph

import (
	"sort"

	"github.com/drcompass/backend-go/internal/domain"
)

// ResourceGraph is an immutable view over a node/edge snapshot.
// Rebuilding with New is the only way to change content.
type ResourceGraph struct {
	nodes    map[string]domain.ResourceNode
	order    []string
	outgoing map[string][]domain.ResourceEdge
	incoming map[string][]domain.ResourceEdge
	dangling []domain.ResourceEdge
}

// New builds a ResourceGraph from node and edge lists. Inputs are copied;
// later mutation of the slices by the caller does not affect the graph.
// When duplicate node ids occur the first occurrence wins.
func New(nodes []domain.ResourceNode, edges []domain.ResourceEdge) *ResourceGraph {
	g := &ResourceGraph{
		nodes:    make(map[string]domain.ResourceNode, len(nodes)),
		order:    make([]string, 0, len(nodes)),
		outgoing: make(map[string][]domain.ResourceEdge),
		incoming: make(map[string][]domain.ResourceEdge),
	}

	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		if _, exists := g.nodes[n.ID]; exists {
			continue
		}
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
	}

	for _, e := range edges {
		_, srcOK := g.nodes[e.Source]
		_, dstOK := g.nodes[e.Target]
		if !srcOK || !dstOK {
			g.dangling = append(g.dangling, e)
			continue
		}
		g.outgoing[e.Source] = append(g.outgoing[e.Source], e)
		g.incoming[e.Target] = append(g.incoming[e.Target], e)
	}

	return g
}

// Node returns the node with the given id
func (g *ResourceGraph) Node(id string) (domain.ResourceNode, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of resolved nodes
func (g *ResourceGraph) Len() int {
	return len(g.nodes)
}

// Nodes returns all nodes in insertion order
func (g *ResourceGraph) Nodes() []domain.ResourceNode {
	out := make([]domain.ResourceNode, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// IDs returns all node ids in insertion order
func (g *ResourceGraph) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// OutEdges returns edges originating at id, optionally filtered by relation.
// An empty relation matches all.
func (g *ResourceGraph) OutEdges(id, relation string) []domain.ResourceEdge {
	return filterEdges(g.outgoing[id], relation)
}

// InEdges returns edges terminating at id, optionally filtered by relation
func (g *ResourceGraph) InEdges(id, relation string) []domain.ResourceEdge {
	return filterEdges(g.incoming[id], relation)
}

// Neighbors returns the target nodes of outgoing edges from id with the
// given relation
func (g *ResourceGraph) Neighbors(id, relation string) []domain.ResourceNode {
	edges := g.OutEdges(id, relation)
	out := make([]domain.ResourceNode, 0, len(edges))
	for _, e := range edges {
		out = append(out, g.nodes[e.Target])
	}
	return out
}

// Dependents returns the source nodes of incoming edges into id with the
// given relation
func (g *ResourceGraph) Dependents(id, relation string) []domain.ResourceNode {
	edges := g.InEdges(id, relation)
	out := make([]domain.ResourceNode, 0, len(edges))
	for _, e := range edges {
		out = append(out, g.nodes[e.Source])
	}
	return out
}

// Edges returns all resolved edges
func (g *ResourceGraph) Edges() []domain.ResourceEdge {
	out := make([]domain.ResourceEdge, 0)
	for _, id := range g.order {
		out = append(out, g.outgoing[id]...)
	}
	return out
}

// DanglingEdges returns the edges whose endpoints did not resolve
func (g *ResourceGraph) DanglingEdges() []domain.ResourceEdge {
	out := make([]domain.ResourceEdge, len(g.dangling))
	copy(out, g.dangling)
	return out
}

// Filter returns a new graph containing only nodes matching pred and the
// edges whose endpoints both survive
func (g *ResourceGraph) Filter(pred func(domain.ResourceNode) bool) *ResourceGraph {
	nodes := make([]domain.ResourceNode, 0)
	for _, id := range g.order {
		if n := g.nodes[id]; pred(n) {
			nodes = append(nodes, n)
		}
	}

	edges := make([]domain.ResourceEdge, 0)
	for _, id := range g.order {
		edges = append(edges, g.outgoing[id]...)
	}
	return New(nodes, edges)
}

// ByRegion groups node ids by region. Nodes with no region are grouped
// under the empty string.
func (g *ResourceGraph) ByRegion() map[string][]string {
	out := make(map[string][]string)
	for _, id := range g.order {
		n := g.nodes[id]
		out[n.Region] = append(out[n.Region], id)
	}
	return out
}

// WithinHops reports whether two nodes are connected within maxHops edges,
// treating edges as undirected
func (g *ResourceGraph) WithinHops(a, b string, maxHops int) bool {
	if a == b {
		_, ok := g.nodes[a]
		return ok
	}
	if _, ok := g.nodes[a]; !ok {
		return false
	}
	if _, ok := g.nodes[b]; !ok {
		return false
	}

	visited := map[string]bool{a: true}
	frontier := []string{a}
	for hop := 0; hop < maxHops; hop++ {
		next := make([]string, 0)
		for _, id := range frontier {
			for _, e := range g.outgoing[id] {
				if e.Target == b {
					return true
				}
				if !visited[e.Target] {
					visited[e.Target] = true
					next = append(next, e.Target)
				}
			}
			for _, e := range g.incoming[id] {
				if e.Source == b {
					return true
				}
				if !visited[e.Source] {
					visited[e.Source] = true
					next = append(next, e.Source)
				}
			}
		}
		if len(next) == 0 {
			return false
		}
		frontier = next
	}
	return false
}

// SortedIDs returns all node ids in lexicographic order
func (g *ResourceGraph) SortedIDs() []string {
	out := g.IDs()
	sort.Strings(out)
	return out
}

func filterEdges(edges []domain.ResourceEdge, relation string) []domain.ResourceEdge {
	if relation == "" {
		out := make([]domain.ResourceEdge, len(edges))
		copy(out, edges)
		return out
	}
	out := make([]domain.ResourceEdge, 0, len(edges))
	for _, e := range edges {
		if e.Relation == relation {
			out = append(out, e)
		}
	}
	return out
}
