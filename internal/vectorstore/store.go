package vectorstore

import (
	"context"

	"github.com/google/uuid"
)

type Chunk struct {
	ID         uuid.UUID
	ChunkIndex int
	Content    string
	Embedding  []float32
	TokenCount int
}

type SearchOptions struct {
	TopK     int
	MinScore float64
}

type SearchResult struct {
	ChunkID    uuid.UUID `json:"chunk_id"`
	ChunkIndex int       `json:"chunk_index"`
	Content    string    `json:"content"`
	Score      float64   `json:"score"`
}

// VectorStore persists embedded document chunks and answers nearest-neighbor
// queries. Implementations must be safe for concurrent readers once populated.
type VectorStore interface {
	Upsert(ctx context.Context, chunks []Chunk) error
	SimilaritySearch(ctx context.Context, query []float32, opts SearchOptions) ([]SearchResult, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	Close() error
}
