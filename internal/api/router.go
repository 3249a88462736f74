package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/KUKRETI07/Rag-chat-bot/internal/api/handlers"
	"github.com/KUKRETI07/Rag-chat-bot/internal/api/middleware"
	"github.com/KUKRETI07/Rag-chat-bot/internal/chat"
	"github.com/KUKRETI07/Rag-chat-bot/internal/history"
	"github.com/KUKRETI07/Rag-chat-bot/internal/queue"
	"github.com/KUKRETI07/Rag-chat-bot/internal/rag"
)

type Router struct {
	mux      *chi.Mux
	redis    *redis.Client
	svc      *chat.Service
	history  *history.Store
	pipeline *rag.Pipeline
	queue    *queue.Client
}

func NewRouter(svc *chat.Service, hist *history.Store, pipeline *rag.Pipeline, rdb *redis.Client, qc *queue.Client) *Router {
	return &Router{
		mux:      chi.NewRouter(),
		redis:    rdb,
		svc:      svc,
		history:  hist,
		pipeline: pipeline,
		queue:    qc,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	health := handlers.NewHealthHandler(rt.redis, rt.pipeline)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	chatH := handlers.NewChatHandler(rt.svc, rt.history)
	r.Get("/", chatH.Root)
	r.Post("/ask", chatH.Ask)
	r.Get("/history", chatH.ListHistory)
	r.Get("/history/{chat_id}", chatH.ChatHistory)
	r.Post("/new", chatH.NewChat)

	var enqueuer handlers.ReindexEnqueuer
	if rt.queue != nil {
		enqueuer = rt.queue
	}
	adminH := handlers.NewAdminHandler(enqueuer)
	r.Post("/admin/reindex", adminH.Reindex)

	return r
}
