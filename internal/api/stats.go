package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/calai/backend/internal/service"
)

// StatsHandler serves session summaries and calendar aggregates
type StatsHandler struct {
	stats  service.IStatsService
	logger *zap.Logger
	now    func() time.Time
}

func NewStatsHandler(stats service.IStatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, logger: logger, now: time.Now}
}

func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/session-summary/:session_id", h.SessionSummary)

	stats := router.Group("/stats")
	{
		stats.GET("/daily/:session_id", h.Daily)
		stats.GET("/weekly/:session_id", h.Weekly)
	}
}

// dateParam parses a YYYY-MM-DD query value in the stats location, defaulting to today
func (h *StatsHandler) dateParam(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return h.now().In(h.stats.Location()), nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, h.stats.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a date in YYYY-MM-DD format", service.ErrValidation, key)
	}
	return t, nil
}

func (h *StatsHandler) SessionSummary(c *gin.Context) {
	summary, err := h.stats.SessionSummary(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *StatsHandler) Daily(c *gin.Context) {
	day, err := h.dateParam(c, "date")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	totals, err := h.stats.DailyTotals(c.Request.Context(), c.Param("session_id"), day)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (h *StatsHandler) Weekly(c *gin.Context) {
	end, err := h.dateParam(c, "end")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	summary, err := h.stats.WeeklySummary(c.Request.Context(), c.Param("session_id"), end)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
