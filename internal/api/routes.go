package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pageza/calai/backend/config"
	"github.com/pageza/calai/backend/internal/service"
)

// Dependencies are the services the HTTP API is built on
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Store     service.ISessionStore
	Meals     service.IMealService
	Stats     service.IStatsService
	Exports   service.IExportService
	PingCache PingFunc
}

// RegisterRoutes registers all API routes under /api plus the metrics endpoint
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	log := deps.Logger.Named("api")

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	NewHealthHandler(deps.Config, deps.Meals.Provider(), deps.Store.Ping, deps.PingCache, log).RegisterRoutes(api)
	NewMealHandler(deps.Meals, log).RegisterRoutes(api)
	NewHistoryHandler(deps.Store, log).RegisterRoutes(api)
	NewStatsHandler(deps.Stats, log).RegisterRoutes(api)
	NewExportHandler(deps.Exports, log).RegisterRoutes(api)
	NewVoiceHandler(log).RegisterRoutes(api)
}
