package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/calai/backend/internal/service"
	"github.com/pageza/calai/backend/internal/types"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// HistoryHandler serves chat history reads and deletes
type HistoryHandler struct {
	store  service.ISessionStore
	logger *zap.Logger
}

func NewHistoryHandler(store service.ISessionStore, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{store: store, logger: logger}
}

func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/chat-history", h.GetHistory)
	router.DELETE("/chat-history/:session_id", h.DeleteHistory)
}

// queryInt reads an integer query value. A max of 0 leaves the value unbounded above.
func queryInt(c *gin.Context, key string, def, min, max int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if max == 0 && (err != nil || v < min) {
		return 0, fmt.Errorf("%w: %s must be an integer >= %d", service.ErrValidation, key, min)
	}
	if max != 0 && (err != nil || v < min || v > max) {
		return 0, fmt.Errorf("%w: %s must be an integer between %d and %d", service.ErrValidation, key, min, max)
	}
	return v, nil
}

// GetHistory returns one page of a session's messages in chronological order. Without a
// session_id the most recently active session is used.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultHistoryLimit, 1, maxHistoryLimit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	offset, err := queryInt(c, "offset", 0, 0, 0)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	ctx := c.Request.Context()
	sessionID := c.Query("session_id")
	empty := types.ChatHistoryResponse{Messages: []types.ChatMessage{}, SessionID: sessionID}

	if sessionID == "" {
		session, err := h.store.MostRecentSession(ctx)
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusOK, empty)
			return
		}
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		sessionID = session.ID
	}

	messages, total, err := h.store.ListMessages(ctx, sessionID, limit, offset)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, types.ChatHistoryResponse{
		Messages:  service.ToChatMessages(messages),
		Total:     total,
		SessionID: sessionID,
		HasMore:   int64(offset+limit) < total,
	})
}

// DeleteHistory removes a session and everything attached to it. Unknown sessions succeed.
func (h *HistoryHandler) DeleteHistory(c *gin.Context) {
	sessionID := c.Param("session_id")
	if err := h.store.DeleteSession(c.Request.Context(), sessionID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("chat history deleted", zap.String("session_id", sessionID))
	c.JSON(http.StatusOK, gin.H{
		"message":    "Chat history deleted successfully",
		"session_id": sessionID,
	})
}
