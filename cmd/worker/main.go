package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/KUKRETI07/Rag-chat-bot/internal/config"
	"github.com/KUKRETI07/Rag-chat-bot/internal/embedding"
	"github.com/KUKRETI07/Rag-chat-bot/internal/llm"
	"github.com/KUKRETI07/Rag-chat-bot/internal/queue"
	"github.com/KUKRETI07/Rag-chat-bot/internal/queue/workers"
	"github.com/KUKRETI07/Rag-chat-bot/internal/rag"
	"github.com/KUKRETI07/Rag-chat-bot/internal/vectorstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := newVectorStore(context.Background(), cfg.Vector)
	if err != nil {
		slog.Error("failed to open vector store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	gateway := llm.NewGateway(cfg.LLM)
	embedder := embedding.NewService(gateway, cfg.LLM.EmbedModel)
	generator := rag.NewGenerator(gateway, cfg.LLM.ChatModel, cfg.LLM.Temperature)
	pipeline := rag.NewPipeline(cfg.RAG, store, embedder, generator)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			// Index rebuilds are heavyweight and touch shared state;
			// run them one at a time.
			Concurrency: 1,
		},
	)

	registry := queue.NewHandlersRegistry()
	indexWorker := workers.NewIndexWorker(pipeline)
	registry.Register(queue.TypeIndexRebuild, asynq.HandlerFunc(indexWorker.ProcessTask))

	slog.Info("starting worker")
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}

func newVectorStore(ctx context.Context, cfg config.VectorConfig) (vectorstore.VectorStore, error) {
	if cfg.Backend == "pgvector" {
		return vectorstore.NewPgVectorStore(ctx, cfg.DatabaseURL, cfg.Dimension)
	}
	return vectorstore.NewSQLiteStore(cfg.IndexDir)
}
