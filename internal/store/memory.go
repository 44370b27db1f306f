package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

const maxRecords = 1000

// MemoryStore keeps analysis records in memory. Used when no DATABASE_URL
// is configured and as the reference implementation in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []AnalysisRecord
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveAnalysis appends a record, evicting the oldest when at capacity
func (s *MemoryStore) SaveAnalysis(_ context.Context, rec AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) >= maxRecords {
		s.records = s.records[1:]
	}
	s.records = append(s.records, rec)
	return nil
}

// ListAnalysesSince returns records created at or after since, oldest first
func (s *MemoryStore) ListAnalysesSince(_ context.Context, since time.Time) ([]AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []AnalysisRecord{}
	for _, rec := range s.records {
		if !rec.CreatedAt.Before(since) {
			result = append(result, rec)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() {}
