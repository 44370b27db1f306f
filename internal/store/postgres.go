package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists analysis records in PostgreSQL via pgx
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool, verifies it with a ping,
// and ensures the analysis history table exists
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	config.MaxConns = 20
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, createAnalysesTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure analyses table: %w", err)
	}

	log.Println("Database connection pool established")
	return &PostgresStore{pool: pool}, nil
}

const createAnalysesTable = `
CREATE TABLE IF NOT EXISTS dr_analyses (
    id             TEXT PRIMARY KEY,
    score          DOUBLE PRECISION NOT NULL,
    grade          TEXT NOT NULL,
    resource_count INTEGER NOT NULL,
    spof_count     INTEGER NOT NULL,
    created_at     TIMESTAMPTZ NOT NULL
)`

// SaveAnalysis persists one analysis record
func (s *PostgresStore) SaveAnalysis(ctx context.Context, rec AnalysisRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO dr_analyses (id, score, grade, resource_count, spof_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Score, rec.Grade, rec.ResourceCount, rec.SPOFCount,
		pgtype.Timestamptz{Time: rec.CreatedAt.UTC(), Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// ListAnalysesSince returns records created at or after since, oldest first
func (s *PostgresStore) ListAnalysesSince(ctx context.Context, since time.Time) ([]AnalysisRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, score, grade, resource_count, spof_count, created_at
		 FROM dr_analyses
		 WHERE created_at >= $1
		 ORDER BY created_at ASC`,
		pgtype.Timestamptz{Time: since.UTC(), Valid: true},
	)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	result := []AnalysisRecord{}
	for rows.Next() {
		var rec AnalysisRecord
		var createdAt pgtype.Timestamptz
		if err := rows.Scan(&rec.ID, &rec.Score, &rec.Grade, &rec.ResourceCount, &rec.SPOFCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		rec.CreatedAt = createdAt.Time
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis rows: %w", err)
	}
	return result, nil
}

// Close releases the connection pool
func (s *PostgresStore) Close() {
	s.pool.Close()
}
