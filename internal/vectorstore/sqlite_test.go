package vectorstore

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestSQLiteStore_UpsertAndSearch(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	chunks := []Chunk{
		{ID: uuid.New(), ChunkIndex: 0, Content: "vacation policy", Embedding: []float32{1, 0, 0}},
		{ID: uuid.New(), ChunkIndex: 1, Content: "sick leave", Embedding: []float32{0, 1, 0}},
		{ID: uuid.New(), ChunkIndex: 2, Content: "dress code", Embedding: []float32{0, 0, 1}},
	}
	if err := store.Upsert(ctx, chunks); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	results, err := store.SimilaritySearch(ctx, []float32{1, 0, 0}, SearchOptions{TopK: 2})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Content != "vacation policy" {
		t.Errorf("top result should be the aligned vector, got %q", results[0].Content)
	}
	if results[0].Score <= results[1].Score {
		t.Error("results should be ordered by descending score")
	}
}

func TestSQLiteStore_CountAndClear(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("fresh store should be empty, got %d", count)
	}

	store.Upsert(ctx, []Chunk{
		{ChunkIndex: 0, Content: "a", Embedding: []float32{1, 0}},
		{ChunkIndex: 1, Content: "b", Embedding: []float32{0, 1}},
	})

	count, _ = store.Count(ctx)
	if count != 2 {
		t.Errorf("expected 2 chunks, got %d", count)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	count, _ = store.Count(ctx)
	if count != 0 {
		t.Errorf("cleared store should be empty, got %d", count)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	store.Upsert(ctx, []Chunk{
		{ChunkIndex: 0, Content: "persisted", Embedding: []float32{1, 0}},
	})
	store.Close()

	reopened, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 persisted chunk, got %d", count)
	}
}

func TestSQLiteStore_UpsertGeneratesMissingIDs(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	err = store.Upsert(ctx, []Chunk{
		{ChunkIndex: 0, Content: "no id", Embedding: []float32{1}},
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	results, _ := store.SimilaritySearch(ctx, []float32{1}, SearchOptions{TopK: 1})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ChunkID == uuid.Nil {
		t.Error("store should assign an id when none is given")
	}
}
