package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/calai/backend/internal/service"
	"github.com/pageza/calai/backend/internal/types"
)

// MealHandler serves meal analysis
type MealHandler struct {
	meals  service.IMealService
	logger *zap.Logger
}

func NewMealHandler(meals service.IMealService, logger *zap.Logger) *MealHandler {
	return &MealHandler{meals: meals, logger: logger}
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/analyze-meal", h.AnalyzeMeal)
}

// AnalyzeMeal runs a meal description through the analysis pipeline. Provider failures still
// answer 200 with the fallback estimate.
func (h *MealHandler) AnalyzeMeal(c *gin.Context) {
	var req types.AnalyzeMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid request body", err.Error()))
		return
	}

	resp, err := h.meals.Analyze(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
