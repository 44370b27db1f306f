// Package dr implements disaster-recovery posture analysis and recovery
// planning over a resource graph snapshot. All entry points are pure
// functions of their inputs and safe for concurrent use.
package dr

import (
	"fmt"
	"math"
	"sort"

	"github.com/drcompass/backend-go/internal/domain"
	"github.com/drcompass/backend-go/internal/graph"
)

// CriticalityPredicate decides whether a resource counts as critical
// beyond the built-in SPOF detection
type CriticalityPredicate func(domain.ResourceNode) bool

// Analyzer scores DR posture from a resource graph
type Analyzer struct {
	weights  domain.DRScoringWeights
	critical CriticalityPredicate
}

// NewAnalyzer creates an Analyzer. A zero-valued weight set falls back to
// the defaults; a nil predicate falls back to tag-based criticality.
func NewAnalyzer(weights domain.DRScoringWeights, critical CriticalityPredicate) *Analyzer {
	if weights.Sum() <= 0 {
		weights = domain.DefaultScoringWeights()
	}
	if critical == nil {
		critical = domain.ResourceNode.TaggedCritical
	}
	return &Analyzer{weights: weights, critical: critical}
}

// Analyze computes the posture score, grade, findings and recommendations
// for the graph. planExists signals whether a recovery plan has already
// been synthesized for this resource set.
func (a *Analyzer) Analyze(g *graph.ResourceGraph, planExists bool) domain.DRAnalysis {
	nodes := g.Nodes()
	spofs := DetectSPOFs(g)
	spofSet := make(map[string]bool, len(spofs))
	for _, id := range spofs {
		spofSet[id] = true
	}

	criticalIDs := make([]string, 0)
	unprotected := make([]string, 0)
	for _, n := range nodes {
		if !a.critical(n) && !spofSet[n.ID] {
			continue
		}
		criticalIDs = append(criticalIDs, n.ID)
		if n.BackupStrategy() == domain.BackupNone {
			unprotected = append(unprotected, n.ID)
		}
	}
	sort.Strings(unprotected)

	signals := a.signals(g, nodes, criticalIDs, unprotected, len(spofs), planExists)
	score := a.weightedScore(signals)

	recovery := make(map[string]int, len(nodes))
	for _, n := range nodes {
		recovery[n.ID] = EstimateRecoveryMinutes(n)
	}

	return domain.DRAnalysis{
		Score:               score,
		Grade:               domain.GradeForScore(score),
		RegionRisks:         a.regionRisks(g, criticalIDs),
		UnprotectedCritical: unprotected,
		RecoveryTimeMinutes: recovery,
		Recommendations:     a.recommendations(g, unprotected, spofs, planExists),
		SPOFs:               spofs,
		ResourceCount:       len(nodes),
	}
}

type signalSet struct {
	backupCoverage     float64
	replicationBreadth float64
	spofPenalty        float64
	crossRegion        float64
	planExistence      float64
}

// signals computes the five posture signals, each normalized to [0,1].
// Empty inputs are treated as fully covered rather than as failures.
func (a *Analyzer) signals(g *graph.ResourceGraph, nodes []domain.ResourceNode, criticalIDs, unprotected []string, spofCount int, planExists bool) signalSet {
	s := signalSet{
		backupCoverage:     1.0,
		replicationBreadth: 1.0,
		spofPenalty:        1.0 / (1.0 + float64(spofCount)),
		crossRegion:        1.0,
	}
	if planExists {
		s.planExistence = 1.0
	}

	if len(criticalIDs) > 0 {
		s.backupCoverage = 1.0 - float64(len(unprotected))/float64(len(criticalIDs))
	}

	if len(nodes) > 0 {
		replicated := 0
		for _, n := range nodes {
			switch n.ReplicationMode() {
			case domain.ReplicationCrossRegion, domain.ReplicationActiveActive:
				replicated++
			default:
				if len(g.OutEdges(n.ID, domain.RelationReplicatesTo)) > 0 {
					replicated++
				}
			}
		}
		replFraction := float64(replicated) / float64(len(nodes))
		s.replicationBreadth = replFraction

		// A fully replicated estate is cross-region distributed even when
		// its primaries sit in one region, so take the better of the two.
		s.crossRegion = math.Max(regionEntropy(g), replFraction)
	}

	return s
}

// weightedScore combines the signals into a [0,100] score, normalizing
// by the weight sum
func (a *Analyzer) weightedScore(s signalSet) float64 {
	w := a.weights
	total := w.Sum()
	if total <= 0 {
		w = domain.DefaultScoringWeights()
		total = w.Sum()
	}

	weighted := s.backupCoverage*w.BackupCoverage +
		s.replicationBreadth*w.ReplicationBreadth +
		s.spofPenalty*w.SPOFPenalty +
		s.crossRegion*w.CrossRegion +
		s.planExistence*w.PlanExistence

	score := weighted / total * 100
	return math.Min(100, math.Max(0, score))
}

// regionEntropy returns the normalized entropy of resource counts across
// regions. Single-region (or empty) topologies score 0.
func regionEntropy(g *graph.ResourceGraph) float64 {
	regions := g.ByRegion()
	if len(regions) < 2 {
		return 0
	}

	total := float64(g.Len())
	entropy := 0.0
	for _, ids := range regions {
		p := float64(len(ids)) / total
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}
	return entropy / math.Log2(float64(len(regions)))
}

// DetectSPOFs returns, in lexicographic order, the ids of resources that
// other resources depend on while having no redundant peer: no replication
// and no other resource of the same type in the same region.
func DetectSPOFs(g *graph.ResourceGraph) []string {
	peers := make(map[string]int)
	for _, n := range g.Nodes() {
		peers[n.Region+"|"+n.ResourceType]++
	}

	spofs := make([]string, 0)
	for _, n := range g.Nodes() {
		if len(g.InEdges(n.ID, domain.RelationDependsOn)) == 0 {
			continue
		}
		switch n.ReplicationMode() {
		case domain.ReplicationCrossRegion, domain.ReplicationActiveActive:
			continue
		}
		if len(g.OutEdges(n.ID, domain.RelationReplicatesTo)) > 0 {
			continue
		}
		if peers[n.Region+"|"+n.ResourceType] > 1 {
			continue
		}
		spofs = append(spofs, n.ID)
	}
	sort.Strings(spofs)
	return spofs
}

// regionRisks enumerates each region with its exposure, ordered by region
// name for deterministic output
func (a *Analyzer) regionRisks(g *graph.ResourceGraph, criticalIDs []string) []domain.RegionRisk {
	criticalSet := make(map[string]bool, len(criticalIDs))
	for _, id := range criticalIDs {
		criticalSet[id] = true
	}

	regions := g.ByRegion()
	names := make([]string, 0, len(regions))
	for r := range regions {
		names = append(names, r)
	}
	sort.Strings(names)

	risks := make([]domain.RegionRisk, 0, len(names))
	for _, region := range names {
		ids := regions[region]

		criticalCount := 0
		failover := false
		providerCounts := make(map[domain.Provider]int)
		for _, id := range ids {
			n, _ := g.Node(id)
			providerCounts[n.Provider]++
			if criticalSet[id] {
				criticalCount++
			}
			switch n.ReplicationMode() {
			case domain.ReplicationCrossRegion, domain.ReplicationActiveActive:
				failover = true
			}
			for _, replica := range g.Neighbors(id, domain.RelationReplicatesTo) {
				if replica.Region != region {
					failover = true
				}
			}
		}

		risks = append(risks, domain.RegionRisk{
			Region:        region,
			Provider:      dominantProvider(providerCounts),
			CriticalCount: criticalCount,
			TotalCount:    len(ids),
			HasFailover:   failover,
			Risk:          regionRiskLevel(criticalCount, len(ids), failover),
		})
	}
	return risks
}

func dominantProvider(counts map[domain.Provider]int) domain.Provider {
	var best domain.Provider
	bestCount := -1
	for p, c := range counts {
		if c > bestCount || (c == bestCount && p < best) {
			best, bestCount = p, c
		}
	}
	return best
}

func regionRiskLevel(critical, total int, failover bool) domain.RiskLevel {
	switch {
	case critical > 0 && !failover:
		return domain.RiskCritical
	case !failover:
		return domain.RiskHigh
	case critical*2 > total:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// recommendations generates rule-triggered remediation suggestions
func (a *Analyzer) recommendations(g *graph.ResourceGraph, unprotected, spofs []string, planExists bool) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0)

	if len(unprotected) > 0 {
		recs = append(recs, domain.Recommendation{
			Severity:          domain.RiskCritical,
			Category:          "backup",
			Description:       fmt.Sprintf("%d critical resource(s) have no backup strategy; enable at least daily backups", len(unprotected)),
			AffectedResources: unprotected,
			Effort:            domain.EffortMedium,
		})
	}

	if len(spofs) > 0 {
		recs = append(recs, domain.Recommendation{
			Severity:          domain.RiskHigh,
			Category:          "redundancy",
			Description:       fmt.Sprintf("%d single point(s) of failure detected; add a redundant peer or replication target", len(spofs)),
			AffectedResources: spofs,
			Effort:            domain.EffortHigh,
		})
	}

	if g.Len() > 0 && len(g.ByRegion()) < 2 {
		recs = append(recs, domain.Recommendation{
			Severity:    domain.RiskMedium,
			Category:    "distribution",
			Description: "all resources are concentrated in a single region; distribute or replicate across regions",
			Effort:      domain.EffortHigh,
		})
	}

	if !planExists && g.Len() > 0 {
		recs = append(recs, domain.Recommendation{
			Severity:    domain.RiskMedium,
			Category:    "planning",
			Description: "no recovery plan exists for this resource set; synthesize and review one",
			Effort:      domain.EffortLow,
		})
	}

	return recs
}
