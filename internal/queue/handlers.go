package queue

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
)

// HandlersRegistry maps task types to their workers. Registered handlers are
// wrapped so every failure is logged before asynq schedules the retry.
type HandlersRegistry struct {
	mux *asynq.ServeMux
}

func NewHandlersRegistry() *HandlersRegistry {
	return &HandlersRegistry{mux: asynq.NewServeMux()}
}

func (r *HandlersRegistry) Register(taskType string, handler asynq.Handler) {
	r.mux.HandleFunc(taskType, func(ctx context.Context, t *asynq.Task) error {
		if err := handler.ProcessTask(ctx, t); err != nil {
			slog.Error("task failed", "type", t.Type(), "error", err)
			return err
		}
		return nil
	})
}

// Mux exposes the underlying mux for asynq.Server.Run.
func (r *HandlersRegistry) Mux() *asynq.ServeMux {
	return r.mux
}
