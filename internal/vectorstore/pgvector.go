package vectorstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgVectorStore is the alternate backend for deployments that already run
// Postgres. Selected with VECTOR_BACKEND=pgvector.
type PgVectorStore struct {
	db *pgxpool.Pool
}

func NewPgVectorStore(ctx context.Context, databaseURL string, dimension int) (*PgVectorStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	s := &PgVectorStore{db: pool}
	if err := s.ensureSchema(ctx, dimension); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *PgVectorStore) ensureSchema(ctx context.Context, dimension int) error {
	if _, err := s.db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create extension: %w", err)
	}
	_, err := s.db.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS handbook_chunks (
			id UUID PRIMARY KEY,
			chunk_index INT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			token_count INT NOT NULL DEFAULT 0
		)`, dimension))
	return err
}

func (s *PgVectorStore) Upsert(ctx context.Context, chunks []Chunk) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range chunks {
		id := c.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO handbook_chunks (id, chunk_index, content, embedding, token_count)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (id) DO UPDATE SET content = $3, embedding = $4, token_count = $5`,
			id, c.ChunkIndex, c.Content, pgvector.NewVector(c.Embedding), c.TokenCount,
		)
		if err != nil {
			return fmt.Errorf("upsert chunk %d: %w", c.ChunkIndex, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *PgVectorStore) SimilaritySearch(ctx context.Context, query []float32, opts SearchOptions) ([]SearchResult, error) {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, chunk_index, content,
		        1 - (embedding <=> $1) AS score
		 FROM handbook_chunks
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(query), opts.TopK,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ChunkID, &r.ChunkIndex, &r.Content, &r.Score); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if opts.MinScore > 0 && r.Score < opts.MinScore {
			continue
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *PgVectorStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM handbook_chunks`).Scan(&count)
	return count, err
}

func (s *PgVectorStore) Clear(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DELETE FROM handbook_chunks`)
	return err
}

func (s *PgVectorStore) Close() error {
	s.db.Close()
	return nil
}
