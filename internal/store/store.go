// Package store persists analysis history. The analysis core never touches
// it; handlers record results after the fact so the API can serve a
// posture-score trend.
package store

import (
	"context"
	"time"
)

// AnalysisRecord is one persisted posture analysis
type AnalysisRecord struct {
	ID            string    `json:"id"`
	Score         float64   `json:"score"`
	Grade         string    `json:"grade"`
	ResourceCount int       `json:"resource_count"`
	SPOFCount     int       `json:"spof_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store is the persistence capability. MemoryStore is the reference
// implementation; PostgresStore is the swappable durable one.
type Store interface {
	// SaveAnalysis persists one analysis record
	SaveAnalysis(ctx context.Context, rec AnalysisRecord) error
	// ListAnalysesSince returns records created at or after since,
	// oldest first
	ListAnalysesSince(ctx context.Context, since time.Time) ([]AnalysisRecord, error)
	// Close releases backing resources
	Close()
}
