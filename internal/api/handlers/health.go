package handlers

import (
	"net/http"

	"github.com/redis/go-redis/v9"
)

// ReadyChecker reports whether the retrieval pipeline has initialized.
type ReadyChecker interface {
	Ready() bool
}

type HealthHandler struct {
	redis    *redis.Client
	pipeline ReadyChecker
}

func NewHealthHandler(rdb *redis.Client, pipeline ReadyChecker) *HealthHandler {
	return &HealthHandler{redis: rdb, pipeline: pipeline}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if h.redis != nil {
		if err := h.redis.Ping(r.Context()).Err(); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
		} else {
			checks["redis"] = "ok"
		}
	}

	if h.pipeline != nil {
		if h.pipeline.Ready() {
			checks["pipeline"] = "ok"
		} else {
			checks["pipeline"] = "uninitialized"
		}
	}

	status := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, map[string]interface{}{"status": statusStr(status), "checks": checks})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}
