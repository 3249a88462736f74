package rag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KUKRETI07/Rag-chat-bot/internal/config"
	"github.com/KUKRETI07/Rag-chat-bot/internal/embedding"
	"github.com/KUKRETI07/Rag-chat-bot/internal/vectorstore"
	"github.com/KUKRETI07/Rag-chat-bot/pkg/chunker"
	"github.com/KUKRETI07/Rag-chat-bot/pkg/textextract"
	"github.com/KUKRETI07/Rag-chat-bot/pkg/tokenizer"
)

// initErrMsg is what askers see while the pipeline has never come up.
const initErrMsg = "Error: RAG pipeline is not initialized. Please check server logs."

// Pipeline turns a question into a grounded answer: embed the query, fetch
// the nearest handbook chunks, hand them to the chat model. Construction is
// cheap; the expensive document indexing happens in Init.
type Pipeline struct {
	cfg       config.RAGConfig
	store     vectorstore.VectorStore
	embedder  *embedding.Service
	retriever *Retriever
	generator *Generator

	mu    sync.Mutex
	ready bool
}

func NewPipeline(cfg config.RAGConfig, store vectorstore.VectorStore, embedder *embedding.Service, gen *Generator) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		store:     store,
		embedder:  embedder,
		retriever: NewRetriever(store, embedder),
		generator: gen,
	}
}

// Init makes the pipeline ready to answer questions. It is idempotent and
// safe for concurrent callers: a single mutex acts as the initialization
// barrier, so only one index build ever runs at a time. A failed attempt
// leaves the pipeline unready; later calls retry.
//
// Disk-first strategy: a non-empty persisted index is reused as-is, the
// document is only extracted and embedded when the index is empty.
func (p *Pipeline) Init(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		return nil
	}

	count, err := p.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("inspect vector index: %w", err)
	}
	if count > 0 {
		slog.Info("reusing persisted vector index", "chunks", count)
		p.ready = true
		return nil
	}

	if err := p.buildIndex(ctx); err != nil {
		return err
	}

	p.ready = true
	slog.Info("RAG pipeline ready")
	return nil
}

// Ready reports whether a past Init succeeded.
func (p *Pipeline) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// Rebuild discards the persisted index and re-ingests the document. Used by
// the reindex worker.
func (p *Pipeline) Rebuild(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear vector index: %w", err)
	}
	p.ready = false

	if err := p.buildIndex(ctx); err != nil {
		return err
	}
	p.ready = true
	return nil
}

func (p *Pipeline) buildIndex(ctx context.Context) error {
	slog.Info("loading document", "path", p.cfg.DocumentPath)
	doc, err := textextract.ExtractFile(p.cfg.DocumentPath)
	if err != nil {
		return fmt.Errorf("load document %s: %w", p.cfg.DocumentPath, err)
	}

	slog.Info("splitting text", "pages", doc.Pages)
	chunks := chunker.Chunk(doc.Content, chunker.ChunkOptions{
		ChunkSize:    p.cfg.ChunkSize,
		ChunkOverlap: p.cfg.ChunkOverlap,
	})
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks generated from %s", p.cfg.DocumentPath)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	slog.Info("creating embeddings", "chunks", len(chunks))
	embeddings, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("generate embeddings: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(embeddings))
	}

	stored := make([]vectorstore.Chunk, len(chunks))
	for i, c := range chunks {
		stored[i] = vectorstore.Chunk{
			ChunkIndex: c.Index,
			Content:    c.Content,
			Embedding:  embeddings[i],
			TokenCount: tokenizer.CountTokens(c.Content),
		}
	}

	if err := p.store.Upsert(ctx, stored); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}
	return nil
}

// Answer runs the full ask path and always returns displayable text. Every
// failure mode is absorbed into a message: init failures surface as a fixed
// string, retrieval/generation failures carry the error description.
func (p *Pipeline) Answer(ctx context.Context, question string) string {
	if !p.Ready() {
		if err := p.Init(ctx); err != nil {
			slog.Error("pipeline initialization failed", "error", err)
			return initErrMsg
		}
	}

	answer, err := p.ask(ctx, question)
	if err != nil {
		slog.Error("RAG invocation failed", "error", err)
		return fmt.Sprintf("Error running RAG: %s", err)
	}
	return answer
}

func (p *Pipeline) ask(ctx context.Context, question string) (string, error) {
	results, err := p.retriever.Retrieve(ctx, question, p.cfg.TopK)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}

	resp, err := p.generator.Generate(ctx, question, results)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return resp, nil
}
