// Package ingest contains raw-event feed sources. A source fetches opaque
// provider payload batches; normalization into canonical incidents happens
// in the incident package.
package ingest

import (
	"context"
	"log"
	"time"

	"github.com/drcompass/backend-go/internal/domain"
)

// FetchResult holds the outcome of a single source fetch
type FetchResult struct {
	SourceName string           `json:"source_name"`
	Provider   domain.Provider  `json:"provider"`
	Source     string           `json:"source"`
	Items      []map[string]any `json:"items"`
	Error      *string          `json:"error,omitempty"`
	FetchedAt  time.Time        `json:"fetched_at"`
}

// Source is the interface all raw-event feed implementations must satisfy
type Source interface {
	// Name returns the source's identifier
	Name() string
	// Provider returns the cloud provider the payloads belong to
	Provider() domain.Provider
	// Source returns the normalization source tag for the payloads
	Source() string
	// Fetch returns the current batch of raw payloads
	Fetch(ctx context.Context) ([]map[string]any, error)
}

// SafeFetch runs a source fetch with error handling; it never returns an
// error to the caller
func SafeFetch(ctx context.Context, s Source) *FetchResult {
	items, err := s.Fetch(ctx)
	result := &FetchResult{
		SourceName: s.Name(),
		Provider:   s.Provider(),
		Source:     s.Source(),
		Items:      items,
		FetchedAt:  time.Now().UTC(),
	}
	if err != nil {
		log.Printf("Source %s fetch failed: %v", s.Name(), err)
		errStr := err.Error()
		result.Error = &errStr
		result.Items = nil
	}
	return result
}
