package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/calai/backend/internal/middleware"
	"github.com/pageza/calai/backend/internal/service"
)

func errorBody(title, message string) middleware.ErrorResponse {
	return middleware.ErrorResponse{Error: title, Message: message}
}

// respondError maps service errors to status codes. Storage failures are logged and hidden
// from the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, errorBody("Validation error", err.Error()))
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, errorBody("Session not found", err.Error()))
	case errors.Is(err, service.ErrExportDisabled):
		c.JSON(http.StatusServiceUnavailable, errorBody("Export unavailable", err.Error()))
	default:
		c.Error(err)
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("Internal server error", "An unexpected error occurred"))
	}
}
