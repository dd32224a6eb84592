package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

const healthTimeout = 3 * time.Second

// dependency - одна проверка зависимости. Необязательная проверка при сбое
// даёт статус degraded, а не unhealthy.
type dependency struct {
	name     string
	required bool
	check    func(ctx context.Context) error
}

// HealthHandler отвечает на GET /health.
type HealthHandler struct {
	deps []dependency
	now    func() time.Time
}

// NewHealthHandler проверяет базу и, если передан, Redis с кэшем эмбеддингов.
func NewHealthHandler(db *sqlx.DB, rdb *redis.Client) *HealthHandler {
	h := &HealthHandler{now: time.Now}
	h.deps = append(h.deps, dependency{name: "database", required: true, check: db.PingContext})
	if rdb != nil {
		h.deps = append(h.deps, dependency{name: "redis", check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	return h
}

// HealthResponse представляет ответ health check.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Timestamp: h.now().UTC(), Checks: make(map[string]string, len(h.deps))}
	for _, p := range h.deps {
		err := p.check(ctx)
		switch {
		case err == nil:
			resp.Checks[p.name] = "healthy"
		case p.required:
			resp.Checks[p.name] = "unhealthy: " + err.Error()
			resp.Status = "unhealthy"
		default:
			resp.Checks[p.name] = "degraded: " + err.Error()
			if resp.Status == "healthy" {
				resp.Status = "degraded"
			}
		}
	}

	status := http.StatusOK
	if resp.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
