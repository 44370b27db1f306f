package incident

import (
	"sort"
	"time"

	"github.com/drcompass/backend-go/internal/domain"
	"github.com/drcompass/backend-go/internal/graph"
)

// Correlation defaults
const (
	DefaultWindow  = 15 * time.Minute
	DefaultMaxHops = 2
)

// Correlator groups related incidents by shared resources and
// temporal/structural proximity
type Correlator struct {
	idgen   IDGenerator
	window  time.Duration
	maxHops int
}

// NewCorrelator creates a Correlator. Zero window/hops fall back to the
// defaults; a nil generator defaults to short uuids.
func NewCorrelator(idgen IDGenerator, window time.Duration, maxHops int) *Correlator {
	if idgen == nil {
		idgen = ShortUUIDGenerator{}
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}
	return &Correlator{idgen: idgen, window: window, maxHops: maxHops}
}

// Correlate partitions incidents into correlation groups via union-find.
// Two incidents are linked when they reference the same resource, or when
// their time windows are within the proximity window and their resources
// are adjacent in the graph (within maxHops). g may be nil, in which case
// only same-resource links apply. Grouping is independent of input order.
func (c *Correlator) Correlate(incidents []domain.Incident, g *graph.ResourceGraph) []domain.CorrelationGroup {
	if len(incidents) == 0 {
		return []domain.CorrelationGroup{}
	}

	// Work over an id-sorted copy so output is stable under input
	// permutation
	sorted := make([]domain.Incident, len(incidents))
	copy(sorted, incidents)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	uf := newUnionFind(len(sorted))
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if c.related(sorted[i], sorted[j], g) {
				uf.union(i, j)
			}
		}
	}

	members := make(map[int][]int)
	for i := range sorted {
		root := uf.find(i)
		members[root] = append(members[root], i)
	}

	roots := make([]int, 0, len(members))
	for root := range members {
		roots = append(roots, root)
	}
	// Order groups by their earliest member (members are id-sorted already)
	sort.Slice(roots, func(a, b int) bool {
		return members[roots[a]][0] < members[roots[b]][0]
	})

	groups := make([]domain.CorrelationGroup, 0, len(roots))
	for _, root := range roots {
		groups = append(groups, c.buildGroup(sorted, members[root]))
	}
	return groups
}

func (c *Correlator) related(a, b domain.Incident, g *graph.ResourceGraph) bool {
	if a.ResourceID != nil && b.ResourceID != nil && *a.ResourceID == *b.ResourceID {
		return true
	}
	if !c.timeProximate(a, b) {
		return false
	}
	if g == nil || a.ResourceID == nil || b.ResourceID == nil {
		return false
	}
	return g.WithinHops(*a.ResourceID, *b.ResourceID, c.maxHops)
}

// timeProximate reports whether the incident windows overlap or sit within
// the proximity window of each other
func (c *Correlator) timeProximate(a, b domain.Incident) bool {
	aEnd := a.StartedAt
	if a.EndedAt != nil {
		aEnd = *a.EndedAt
	}
	bEnd := b.StartedAt
	if b.EndedAt != nil {
		bEnd = *b.EndedAt
	}

	if a.StartedAt.Before(bEnd.Add(c.window)) && b.StartedAt.Before(aEnd.Add(c.window)) {
		return true
	}
	return false
}

func (c *Correlator) buildGroup(sorted []domain.Incident, member []int) domain.CorrelationGroup {
	ids := make([]string, 0, len(member))
	resourceSet := make(map[string]bool)
	var start time.Time
	var end *time.Time
	closed := true

	for _, idx := range member {
		inc := sorted[idx]
		ids = append(ids, inc.ID)
		if inc.ResourceID != nil {
			resourceSet[*inc.ResourceID] = true
		}
		if start.IsZero() || inc.StartedAt.Before(start) {
			start = inc.StartedAt
		}
		if inc.EndedAt == nil {
			closed = false
		} else if end == nil || inc.EndedAt.After(*end) {
			end = inc.EndedAt
		}
	}
	if !closed {
		end = nil
	}

	resources := make([]string, 0, len(resourceSet))
	for r := range resourceSet {
		resources = append(resources, r)
	}
	sort.Strings(resources)

	return domain.CorrelationGroup{
		ID:              c.idgen.NewID(),
		IncidentIDs:     ids,
		SharedResources: resources,
		WindowStart:     start,
		WindowEnd:       end,
	}
}

// Summarize aggregates counts over a set of incidents. g may be nil;
// incidents whose resource is not in the graph count under "unknown"
// resource type.
func Summarize(incidents []domain.Incident, g *graph.ResourceGraph) domain.IncidentSummary {
	s := domain.IncidentSummary{
		Total:          len(incidents),
		BySeverity:     make(map[string]int),
		ByProvider:     make(map[string]int),
		ByResourceType: make(map[string]int),
	}

	for _, inc := range incidents {
		if inc.Open() {
			s.Open++
		}
		s.BySeverity[string(inc.Severity)]++
		s.ByProvider[string(inc.Provider)]++

		resType := "unknown"
		if g != nil && inc.ResourceID != nil {
			if n, ok := g.Node(*inc.ResourceID); ok && n.ResourceType != "" {
				resType = n.ResourceType
			}
		}
		s.ByResourceType[resType]++
	}

	return s
}

// unionFind is a weighted quick-union over incident indices
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}
