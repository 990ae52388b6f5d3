package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/course-registration/internal/config"
	"github.com/stemsi/course-registration/internal/response"
	"github.com/stemsi/course-registration/internal/service"
)

const healthTimeout = 2 * time.Second

// HealthHandler reports dependency status and a few runtime figures.
type HealthHandler struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	catalog   *service.CatalogService
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client, catalog *service.CatalogService) *HealthHandler {
	return &HealthHandler{pool: pool, rdb: rdb, catalog: catalog, startTime: time.Now()}
}

type healthStatus struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	Redis         string `json:"redis"`
	Uptime        string `json:"uptime"`
	Courses       int    `json:"courses"`
	EventQueueLen int64  `json:"event_queue_len"`
	Goroutines    int    `json:"goroutines"`
	GoVersion     string `json:"go_version"`
}

// Health godoc
// GET /health
// Responds 503 when Postgres or Redis is unreachable.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	s := healthStatus{
		Status:     "ok",
		Database:   "ok",
		Redis:      "ok",
		Uptime:     time.Since(h.startTime).Truncate(time.Second).String(),
		Courses:    h.catalog.Engine().Catalog().Len(),
		Goroutines: runtime.NumGoroutine(),
		GoVersion:  runtime.Version(),
	}

	if err := h.pool.Ping(ctx); err != nil {
		s.Status, s.Database = "degraded", err.Error()
	}
	if n, err := h.rdb.LLen(ctx, config.WorkerKey.EnrollmentEventsQueue).Result(); err != nil {
		s.Status, s.Redis = "degraded", err.Error()
	} else {
		s.EventQueueLen = n
	}

	status := http.StatusOK
	if s.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	response.Success(c, status, s)
}
