package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KUKRETI07/Rag-chat-bot/internal/api"
	"github.com/KUKRETI07/Rag-chat-bot/internal/cache"
	"github.com/KUKRETI07/Rag-chat-bot/internal/chat"
	"github.com/KUKRETI07/Rag-chat-bot/internal/config"
	"github.com/KUKRETI07/Rag-chat-bot/internal/embedding"
	"github.com/KUKRETI07/Rag-chat-bot/internal/history"
	"github.com/KUKRETI07/Rag-chat-bot/internal/llm"
	"github.com/KUKRETI07/Rag-chat-bot/internal/queue"
	"github.com/KUKRETI07/Rag-chat-bot/internal/rag"
	"github.com/KUKRETI07/Rag-chat-bot/internal/vectorstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := newVectorStore(ctx, cfg.Vector)
	if err != nil {
		slog.Error("failed to open vector store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Redis is optional: without it the answer cache and the background
	// reindex queue are disabled, everything else works.
	var rdb *redis.Client
	var queueClient *queue.Client
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Warn("redis unavailable, running without cache and queue", "error", err)
			client.Close()
		} else {
			rdb = client
			defer rdb.Close()
			queueClient = queue.NewClient(cfg.Redis)
			defer queueClient.Close()
		}
	}

	gateway := llm.NewGateway(cfg.LLM)
	embedder := embedding.NewService(gateway, cfg.LLM.EmbedModel)
	generator := rag.NewGenerator(gateway, cfg.LLM.ChatModel, cfg.LLM.Temperature)
	pipeline := rag.NewPipeline(cfg.RAG, store, embedder, generator)

	// Warm up at startup; a missing handbook only logs, the first /ask
	// retries initialization lazily.
	if err := pipeline.Init(ctx); err != nil {
		slog.Warn("RAG pipeline not initialized", "error", err)
	}

	hist := history.NewStore(cfg.History.FilePath)
	svc := chat.NewService(hist, pipeline, cache.NewCache(rdb), time.Duration(cfg.RAG.CacheTTLSec)*time.Second)

	router := api.NewRouter(svc, hist, pipeline, rdb, queueClient)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func newVectorStore(ctx context.Context, cfg config.VectorConfig) (vectorstore.VectorStore, error) {
	if cfg.Backend == "pgvector" {
		return vectorstore.NewPgVectorStore(ctx, cfg.DatabaseURL, cfg.Dimension)
	}
	return vectorstore.NewSQLiteStore(cfg.IndexDir)
}
