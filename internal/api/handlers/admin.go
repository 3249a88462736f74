package handlers

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/KUKRETI07/Rag-chat-bot/internal/queue"
)

// ReindexEnqueuer schedules a background index rebuild.
type ReindexEnqueuer interface {
	EnqueueIndexRebuild(payload queue.IndexRebuildPayload) error
}

type AdminHandler struct {
	queue ReindexEnqueuer
}

func NewAdminHandler(q ReindexEnqueuer) *AdminHandler {
	return &AdminHandler{queue: q}
}

func (h *AdminHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		writeError(w, http.StatusServiceUnavailable, "background queue not configured")
		return
	}

	err := h.queue.EnqueueIndexRebuild(queue.IndexRebuildPayload{
		RequestedBy: chimiddleware.GetReqID(r.Context()),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reindex scheduled"})
}
