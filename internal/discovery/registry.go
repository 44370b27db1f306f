package discovery

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/drcompass/backend-go/internal/domain"
)

// Discoverer is implemented by every provider adapter
type Discoverer interface {
	// Name identifies the adapter in logs and errors
	Name() string
	// Discover returns the provider's current resource nodes and edges
	Discover(ctx context.Context) ([]domain.ResourceNode, []domain.ResourceEdge, error)
}

// ProviderError records a provider whose discovery failed
type ProviderError struct {
	Provider string `json:"provider"`
	Error    string `json:"error"`
}

// Registry fans discovery out across providers. One provider failing must
// not drop nodes discovered by the others.
type Registry struct {
	discoverers []Discoverer
	timeout     time.Duration
}

// NewRegistry creates a Registry. A zero timeout defaults to 30s per
// refresh.
func NewRegistry(timeout time.Duration, discoverers ...Discoverer) *Registry {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Registry{discoverers: discoverers, timeout: timeout}
}

// Providers returns the registered adapter names
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.discoverers))
	for _, d := range r.discoverers {
		names = append(names, d.Name())
	}
	return names
}

// Discover runs all adapters concurrently and merges their output.
// Failures are collected per provider, never returned as a fatal error.
func (r *Registry) Discover(ctx context.Context) ([]domain.ResourceNode, []domain.ResourceEdge, []ProviderError) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var mu sync.Mutex
	var wg sync.WaitGroup

	nodes := make([]domain.ResourceNode, 0)
	edges := make([]domain.ResourceEdge, 0)
	errs := make([]ProviderError, 0)

	for _, d := range r.discoverers {
		wg.Add(1)
		go func(d Discoverer) {
			defer wg.Done()

			n, e, err := d.Discover(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("Discovery failed for %s: %v", d.Name(), err)
				errs = append(errs, ProviderError{Provider: d.Name(), Error: err.Error()})
				return
			}
			nodes = append(nodes, n...)
			edges = append(edges, e...)
		}(d)
	}

	wg.Wait()
	return nodes, edges, errs
}
