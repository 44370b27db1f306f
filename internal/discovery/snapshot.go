package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/drcompass/backend-go/internal/domain"
	"github.com/drcompass/backend-go/internal/graph"
)

// Snapshot is one immutable discovery result
type Snapshot struct {
	Graph      *graph.ResourceGraph
	Errors     []ProviderError
	CapturedAt time.Time
}

// SnapshotManager holds the latest merged graph snapshot so handlers
// analyze a consistent view while a refresh runs
type SnapshotManager struct {
	mu       sync.RWMutex
	registry *Registry
	current  *Snapshot
}

// NewSnapshotManager creates a SnapshotManager over the registry
func NewSnapshotManager(registry *Registry) *SnapshotManager {
	return &SnapshotManager{registry: registry}
}

// Refresh runs discovery and swaps in the new snapshot. Provider failures
// are recorded on the snapshot; whatever subset was discovered is kept.
func (sm *SnapshotManager) Refresh(ctx context.Context) *Snapshot {
	nodes, edges, errs := sm.registry.Discover(ctx)

	snap := &Snapshot{
		Graph:      graph.New(nodes, edges),
		Errors:     errs,
		CapturedAt: time.Now().UTC(),
	}

	sm.mu.Lock()
	sm.current = snap
	sm.mu.Unlock()
	return snap
}

// Current returns the latest snapshot, or ErrSnapshotUnavailable when no
// refresh has completed yet
func (sm *SnapshotManager) Current() (*Snapshot, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.current == nil {
		return nil, domain.ErrSnapshotUnavailable
	}
	return sm.current, nil
}
