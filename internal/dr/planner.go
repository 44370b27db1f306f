package dr

import (
	"fmt"
	"sort"

	"github.com/drcompass/backend-go/internal/domain"
	"github.com/drcompass/backend-go/internal/graph"
)

// Planner synthesizes dependency-ordered recovery plans for failure
// scenarios
type Planner struct{}

// NewPlanner creates a Planner
func NewPlanner() *Planner {
	return &Planner{}
}

// Plan builds a recovery plan for the given scenario. target selects the
// failed region, availability zone or resource depending on the scenario;
// when empty, region and AZ scenarios default to the largest grouping.
// An empty affected set yields an empty plan, not an error.
func (p *Planner) Plan(g *graph.ResourceGraph, scenario domain.FailureScenario, target string) (domain.RecoveryPlan, error) {
	if !domain.KnownScenario(scenario) {
		return domain.RecoveryPlan{}, fmt.Errorf("%w: %q", domain.ErrUnknownScenario, scenario)
	}

	affected, target, err := affectedResources(g, scenario, target)
	if err != nil {
		return domain.RecoveryPlan{}, err
	}

	plan := domain.RecoveryPlan{
		Scenario:          scenario,
		Target:            target,
		AffectedResources: affected,
		Steps:             []domain.RecoveryStep{},
		Layers:            [][]string{},
	}
	if len(affected) == 0 {
		return plan, nil
	}

	affectedSet := make(map[string]bool, len(affected))
	for _, id := range affected {
		affectedSet[id] = true
	}
	sub := g.Filter(func(n domain.ResourceNode) bool { return affectedSet[n.ID] })

	order := topoOrder(sub)

	stepOrder := make(map[string]int, len(order))
	rpo := 0
	for i, e := range order {
		n, _ := sub.Node(e.id)
		deps := make([]int, 0)
		for _, edge := range sub.OutEdges(e.id, domain.RelationDependsOn) {
			if o, done := stepOrder[edge.Target]; done {
				deps = append(deps, o)
			}
		}
		sort.Ints(deps)

		action := actionFor(n)
		if e.manual {
			action = "MANUAL: " + action + " (dependency cycle, verify ordering)"
		}

		plan.Steps = append(plan.Steps, domain.RecoveryStep{
			Order:            i + 1,
			Action:           action,
			ResourceID:       n.ID,
			ResourceName:     n.Name,
			EstimatedMinutes: EstimateRecoveryMinutes(n),
			DependsOn:        deps,
			Manual:           e.manual,
		})
		stepOrder[e.id] = i + 1

		if w := EstimateRPOMinutes(n); w > rpo {
			rpo = w
		}
	}

	plan.Layers = layerSteps(plan.Steps)
	plan.RTOMinutes = criticalPathMinutes(plan.Steps)
	plan.RPOMinutes = rpo
	return plan, nil
}

// affectedResources intersects the scenario predicate with the graph and
// returns the affected node ids sorted lexicographically
func affectedResources(g *graph.ResourceGraph, scenario domain.FailureScenario, target string) ([]string, string, error) {
	var pred func(domain.ResourceNode) bool

	switch scenario {
	case domain.ScenarioRegionFailure:
		if target == "" {
			target = largestGroup(g, func(n domain.ResourceNode) string { return n.Region })
		}
		region := target
		pred = func(n domain.ResourceNode) bool { return n.Region == region && region != "" }

	case domain.ScenarioAZFailure:
		if target == "" {
			target = largestGroup(g, availabilityZone)
		}
		az := target
		pred = func(n domain.ResourceNode) bool { return availabilityZone(n) == az && az != "" }

	case domain.ScenarioServiceOutage:
		if target == "" {
			return nil, "", fmt.Errorf("%w: target resource id is required for scenario %q", domain.ErrMissingField, scenario)
		}
		closure := dependentClosure(g, target)
		pred = func(n domain.ResourceNode) bool { return closure[n.ID] }

	case domain.ScenarioDataCorruption:
		if target != "" {
			id := target
			pred = func(n domain.ResourceNode) bool { return n.ID == id }
		} else {
			pred = dataBearing
		}
	}

	ids := make([]string, 0)
	for _, n := range g.Nodes() {
		if pred(n) {
			ids = append(ids, n.ID)
		}
	}
	sort.Strings(ids)
	return ids, target, nil
}

func availabilityZone(n domain.ResourceNode) string {
	if v, ok := n.Metadata["availability_zone"].(string); ok {
		return v
	}
	if v, ok := n.Tags["availability_zone"]; ok {
		return v
	}
	return ""
}

// dataBearing marks resource types that hold state worth restoring after
// corruption
func dataBearing(n domain.ResourceNode) bool {
	switch n.ResourceType {
	case "rds", "database", "volume", "storage", "s3", "pvc":
		return true
	}
	return n.BackupStrategy() != domain.BackupNone
}

// largestGroup returns the key with the most nodes; ties go to the
// lexicographically smallest key. Empty keys are ignored.
func largestGroup(g *graph.ResourceGraph, key func(domain.ResourceNode) string) string {
	counts := make(map[string]int)
	for _, n := range g.Nodes() {
		if k := key(n); k != "" {
			counts[k]++
		}
	}

	best := ""
	bestCount := 0
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best, bestCount = k, c
		}
	}
	return best
}

// dependentClosure returns the target plus every node that transitively
// depends on it
func dependentClosure(g *graph.ResourceGraph, target string) map[string]bool {
	closure := map[string]bool{target: true}
	frontier := []string{target}
	for len(frontier) > 0 {
		next := make([]string, 0)
		for _, id := range frontier {
			for _, e := range g.InEdges(id, domain.RelationDependsOn) {
				if !closure[e.Source] {
					closure[e.Source] = true
					next = append(next, e.Source)
				}
			}
		}
		frontier = next
	}
	return closure
}

type emitted struct {
	id     string
	manual bool
}

// topoOrder runs Kahn's algorithm over dependency edges. A resource's
// dependencies recover before it. Ready nodes are emitted lowest-id first
// so output is deterministic. When no node is ready but nodes remain, the
// cycle is broken by force-emitting the lowest remaining id with the
// manual flag set.
func topoOrder(g *graph.ResourceGraph) []emitted {
	indegree := make(map[string]int, g.Len())
	for _, id := range g.IDs() {
		indegree[id] = len(g.OutEdges(id, domain.RelationDependsOn))
	}

	ready := make([]string, 0)
	for _, id := range g.SortedIDs() {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]emitted, 0, g.Len())
	emit := func(id string, manual bool) {
		order = append(order, emitted{id: id, manual: manual})
		delete(indegree, id)
		for _, e := range g.InEdges(id, domain.RelationDependsOn) {
			if left, pending := indegree[e.Source]; pending {
				indegree[e.Source] = left - 1
				if left-1 == 0 {
					ready = insertSorted(ready, e.Source)
				}
			}
		}
	}

	for len(indegree) > 0 {
		if len(ready) > 0 {
			id := ready[0]
			ready = ready[1:]
			if _, pending := indegree[id]; !pending {
				continue
			}
			emit(id, false)
			continue
		}

		// Cycle: force the lowest remaining id and flag it for operators
		lowest := ""
		for id := range indegree {
			if lowest == "" || id < lowest {
				lowest = id
			}
		}
		emit(lowest, true)
	}

	return order
}

func insertSorted(ids []string, id string) []string {
	i := sort.SearchStrings(ids, id)
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

// layerSteps groups step resource ids into parallelizable batches by
// topological depth
func layerSteps(steps []domain.RecoveryStep) [][]string {
	depth := make(map[int]int, len(steps)) // step order -> depth
	layers := make([][]string, 0)

	for _, s := range steps {
		d := 0
		for _, dep := range s.DependsOn {
			if depth[dep]+1 > d {
				d = depth[dep] + 1
			}
		}
		depth[s.Order] = d
		for len(layers) <= d {
			layers = append(layers, []string{})
		}
		layers[d] = append(layers[d], s.ResourceID)
	}

	for _, layer := range layers {
		sort.Strings(layer)
	}
	return layers
}

// criticalPathMinutes returns the longest duration chain through the
// dependency DAG, not the simple total
func criticalPathMinutes(steps []domain.RecoveryStep) int {
	finish := make(map[int]int, len(steps)) // step order -> path finish time
	rto := 0
	for _, s := range steps {
		start := 0
		for _, dep := range s.DependsOn {
			if finish[dep] > start {
				start = finish[dep]
			}
		}
		finish[s.Order] = start + s.EstimatedMinutes
		if finish[s.Order] > rto {
			rto = finish[s.Order]
		}
	}
	return rto
}
