package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/calai/backend/config"
	"github.com/pageza/calai/backend/internal/types"
)

const probeTimeout = 2 * time.Second

// PingFunc checks a backing dependency
type PingFunc func(ctx context.Context) error

// HealthHandler serves the liveness and readiness probes
type HealthHandler struct {
	cfg       *config.Config
	provider  string
	pingDB    PingFunc
	pingCache PingFunc
	logger    *zap.Logger
}

// NewHealthHandler creates the probe handler. pingCache may be nil when no cache is configured.
func NewHealthHandler(cfg *config.Config, provider string, pingDB, pingCache PingFunc, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		cfg:       cfg,
		provider:  provider,
		pingDB:    pingDB,
		pingCache: pingCache,
		logger:    logger,
	}
}

func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)
	router.GET("/health/db", h.Database)
}

func probe(ctx context.Context, fn PingFunc) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return fn(ctx)
}

func connectionState(err error) string {
	if err != nil {
		return "disconnected"
	}
	return "connected"
}

// Health always answers 200 so orchestrators can tell a live process from a dead one
func (h *HealthHandler) Health(c *gin.Context) {
	dbErr := probe(c.Request.Context(), h.pingDB)

	status := "healthy"
	if dbErr != nil {
		status = "degraded"
	}

	c.JSON(http.StatusOK, types.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   h.cfg.AppVersion,
		Details: map[string]interface{}{
			"app_name":    h.cfg.AppName,
			"ai_provider": h.provider,
			"debug_mode":  h.cfg.Environment != config.Production,
			"database":    connectionState(dbErr),
		},
	})
}

// Database checks connectivity to the store and, when configured, the analysis cache
func (h *HealthHandler) Database(c *gin.Context) {
	details := map[string]interface{}{
		"database": "connected",
		"driver":   h.cfg.DBDriver,
	}

	if err := probe(c.Request.Context(), h.pingDB); err != nil {
		h.logger.Error("database health check failed", zap.Error(err))
		details["database"] = "disconnected"
		details["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, types.HealthResponse{
			Status:    "unhealthy",
			Message:   "Database connection failed",
			Timestamp: time.Now().UTC(),
			Version:   h.cfg.AppVersion,
			Details:   details,
		})
		return
	}

	details["cache"] = "disabled"
	if h.pingCache != nil {
		cacheErr := probe(c.Request.Context(), h.pingCache)
		if cacheErr != nil {
			h.logger.Warn("cache health check failed", zap.Error(cacheErr))
		}
		details["cache"] = connectionState(cacheErr)
	}

	c.JSON(http.StatusOK, types.HealthResponse{
		Status:    "healthy",
		Message:   "Database connection is active",
		Timestamp: time.Now().UTC(),
		Version:   h.cfg.AppVersion,
		Details:   details,
	})
}
