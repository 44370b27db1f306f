package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSaveAndList(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := s.SaveAnalysis(ctx, AnalysisRecord{
			ID:        fmt.Sprintf("rec-%d", i),
			Score:     float64(50 + i),
			Grade:     "C",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	records, err := s.ListAnalysesSince(ctx, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "rec-2", records[0].ID)
	assert.Equal(t, "rec-4", records[2].ID)
}

func TestMemoryStoreListOrderedOldestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	// Insert out of chronological order
	require.NoError(t, s.SaveAnalysis(ctx, AnalysisRecord{ID: "late", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, s.SaveAnalysis(ctx, AnalysisRecord{ID: "early", CreatedAt: base}))

	records, err := s.ListAnalysesSince(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "early", records[0].ID)
	assert.Equal(t, "late", records[1].ID)
}

func TestMemoryStoreEviction(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < maxRecords+10; i++ {
		err := s.SaveAnalysis(ctx, AnalysisRecord{
			ID:        fmt.Sprintf("rec-%d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	records, err := s.ListAnalysesSince(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, records, maxRecords)
	// Oldest entries were evicted
	assert.Equal(t, "rec-10", records[0].ID)
}

func TestMemoryStoreEmpty(t *testing.T) {
	s := NewMemoryStore()

	records, err := s.ListAnalysesSince(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, records)
}
