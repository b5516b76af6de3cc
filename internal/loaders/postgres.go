package loaders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/3Dimaging-ucl/openvocab/internal/types"
)

type PostgresClient struct {
	dsn  string
	pool *pgxpool.Pool
}

func NewPostgresClient(dsn string, workerCount, batchSize int) (*PostgresClient, error) {
	client := &PostgresClient{
		dsn: dsn,
	}

	pool, err := client.createConnectionPool(workerCount, batchSize)
	if err != nil {
		return nil, err
	}

	client.pool = pool
	log.Println("Successfully connected to PostgreSQL database with connection pool")
	return client, nil
}

func (c *PostgresClient) createConnectionPool(workerCount, batchSize int) (*pgxpool.Pool, error) {
	log.Println("Parsing Postgres DSN")
	cfg, err := pgxpool.ParseConfig(c.dsn)
	if err != nil {
		log.Printf("Failed to parse Postgres DSN: %v", err)
		return nil, fmt.Errorf("failed to parse Postgres DSN: %w", err)
	}

	cfg.MaxConns = int32(workerCount) + 2
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.MaxConnLifetime = 60 * time.Minute
	cfg.MaxConnIdleTime = 15 * time.Minute
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	log.Printf("Creating Postgres connection pool with MaxConns=%d", cfg.MaxConns)
	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		log.Printf("Failed to create pgx pool: %v", err)
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Println("Pinging Postgres to check connectivity")
	if err := pool.Ping(ctx); err != nil {
		log.Printf("Failed to ping Postgres: %v", err)
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}

	// Enable pgvector extension
	log.Println("Enabling pgvector extension")
	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		log.Printf("Failed to enable pgvector extension: %v", err)
		pool.Close()
		return nil, fmt.Errorf("failed to enable pgvector extension: %w", err)
	}

	return pool, nil
}

func (c *PostgresClient) GetPool() *pgxpool.Pool {
	return c.pool
}

func (c *PostgresClient) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}

// EnsureSchema creates the classification_runs table if it does not exist.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	_, err := c.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS classification_runs (
			id UUID PRIMARY KEY,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			image_source TEXT NOT NULL,
			prompts JSONB NOT NULL,
			scores JSONB NOT NULL,
			best_prompt TEXT NOT NULL,
			best_score DOUBLE PRECISION NOT NULL,
			image_embedding vector,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create classification_runs table: %w", err)
	}
	return nil
}

// InsertClassification persists one classification run.
func (c *PostgresClient) InsertClassification(ctx context.Context, rec *types.ClassificationRecord) error {
	promptsJSON, err := json.Marshal(rec.Prompts)
	if err != nil {
		return fmt.Errorf("failed to marshal prompts: %w", err)
	}
	scoresJSON, err := json.Marshal(rec.Scores)
	if err != nil {
		return fmt.Errorf("failed to marshal scores: %w", err)
	}

	embedding := make([]float32, len(rec.Embedding))
	for i, v := range rec.Embedding {
		embedding[i] = float32(v)
	}

	_, err = c.pool.Exec(ctx, `
		INSERT INTO classification_runs
			(id, provider, model, image_source, prompts, scores, best_prompt, best_score, image_embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.Provider, rec.Model, rec.ImageSource,
		promptsJSON, scoresJSON, rec.BestPrompt, rec.BestScore,
		pgvector.NewVector(embedding), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert classification run: %w", err)
	}
	return nil
}

// GetClassification fetches a single run by id.
func (c *PostgresClient) GetClassification(ctx context.Context, id string) (*types.ClassificationRecord, error) {
	row := c.pool.QueryRow(ctx, `
		SELECT id, provider, model, image_source, prompts, scores, best_prompt, best_score, created_at
		FROM classification_runs WHERE id = $1`, id)

	rec, err := scanClassification(row)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch classification run: %w", err)
	}
	return rec, nil
}

// ListClassifications returns the most recent runs, newest first.
func (c *PostgresClient) ListClassifications(ctx context.Context, limit int) ([]*types.ClassificationRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := c.pool.Query(ctx, `
		SELECT id, provider, model, image_source, prompts, scores, best_prompt, best_score, created_at
		FROM classification_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list classification runs: %w", err)
	}
	defer rows.Close()

	var records []*types.ClassificationRecord
	for rows.Next() {
		rec, err := scanClassification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan classification run: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanClassification(row pgx.Row) (*types.ClassificationRecord, error) {
	var rec types.ClassificationRecord
	var promptsJSON, scoresJSON []byte

	err := row.Scan(&rec.ID, &rec.Provider, &rec.Model, &rec.ImageSource,
		&promptsJSON, &scoresJSON, &rec.BestPrompt, &rec.BestScore, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(promptsJSON, &rec.Prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}
	if err := json.Unmarshal(scoresJSON, &rec.Scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scores: %w", err)
	}
	return &rec, nil
}
