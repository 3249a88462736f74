package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/KUKRETI07/Rag-chat-bot/internal/queue"
)

// Rebuilder is the piece of the RAG pipeline the worker needs.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

type IndexWorker struct {
	pipeline Rebuilder
}

func NewIndexWorker(pipeline Rebuilder) *IndexWorker {
	return &IndexWorker{pipeline: pipeline}
}

func (w *IndexWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.IndexRebuildPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	slog.Info("rebuilding vector index", "requested_by", payload.RequestedBy)
	if err := w.pipeline.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	slog.Info("vector index rebuilt")
	return nil
}
