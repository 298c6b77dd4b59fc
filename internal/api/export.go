package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/calai/backend/internal/service"
)

// ExportHandler uploads session transcripts to object storage
type ExportHandler struct {
	exports service.IExportService
	logger  *zap.Logger
}

func NewExportHandler(exports service.IExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exports: exports, logger: logger}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/session-export/:session_id", h.Export)
}

func (h *ExportHandler) Export(c *gin.Context) {
	resp, err := h.exports.Export(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("session exported", zap.String("session_id", resp.SessionID), zap.String("key", resp.Key))
	c.JSON(http.StatusOK, resp)
}
