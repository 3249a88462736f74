package rag

import (
	"context"
	"fmt"

	"github.com/KUKRETI07/Rag-chat-bot/internal/embedding"
	"github.com/KUKRETI07/Rag-chat-bot/internal/vectorstore"
)

type Retriever struct {
	store    vectorstore.VectorStore
	embedder *embedding.Service
}

func NewRetriever(store vectorstore.VectorStore, embedder *embedding.Service) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]vectorstore.SearchResult, error) {
	queryVec, err := r.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return r.store.SimilaritySearch(ctx, queryVec, vectorstore.SearchOptions{TopK: topK})
}
