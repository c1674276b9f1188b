package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/userprofile/backend/internal/database"
)

// HealthChecks reports the state of each dependency.
type HealthChecks struct {
	Database string `json:"database"`
	Redis    string `json:"redis,omitempty"`
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status string        `json:"status"`
	Uptime string        `json:"uptime"`
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db        *gorm.DB
	redis     *redis.Client
	startTime time.Time
}

// NewHealthHandler creates a handler; redisClient may be nil.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient, startTime: time.Now()}
}

func (h *HealthHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/livez", h.Livez)
	router.GET("/readyz", h.Readyz)
}

// Livez always succeeds while the process serves requests.
func (h *HealthHandler) Livez(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Uptime: time.Since(h.startTime).String()})
}

// Readyz succeeds when the database and, if configured, Redis respond.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := &HealthChecks{Database: "ok"}
	status, code := "ok", http.StatusOK

	if err := database.HealthCheck(ctx, h.db); err != nil {
		checks.Database = "error: " + err.Error()
		status, code = "degraded", http.StatusServiceUnavailable
	}
	if h.redis != nil {
		checks.Redis = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			checks.Redis = "error: " + err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}

	c.JSON(code, HealthResponse{
		Status: status,
		Uptime: time.Since(h.startTime).String(),
		Checks: checks,
	})
}
