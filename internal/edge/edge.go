// Package edge serves the meal analysis pipeline as a small chi handler, the shape used when
// the API runs as a standalone function next to the frontend.
package edge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/pageza/calai/backend/config"
	"github.com/pageza/calai/backend/internal/middleware"
	"github.com/pageza/calai/backend/internal/service"
	"github.com/pageza/calai/backend/internal/types"
)

const maxBodyBytes = 1 << 20

type handler struct {
	cfg    *config.Config
	meals  service.IMealService
	ping   func(ctx context.Context) error
	logger *zap.Logger
}

// NewRouter builds the edge router. ping checks the store for the health probe.
func NewRouter(cfg *config.Config, meals service.IMealService, ping func(ctx context.Context) error, logger *zap.Logger) http.Handler {
	h := &handler{cfg: cfg, meals: meals, ping: ping, logger: logger.Named("edge")}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(middleware.ErrorHandler(h.logger))
	r.Use(middleware.HTTPMetrics)
	r.Use(middleware.HTTPCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze-meal", h.analyzeMeal)
		r.Get("/health", h.health)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("Request completed",
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *handler) analyzeMeal(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeMealRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, middleware.ErrorResponse{Error: "Invalid request body", Message: err.Error()})
		return
	}

	resp, err := h.meals.Analyze(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, service.ErrValidation):
		writeJSON(w, http.StatusBadRequest, middleware.ErrorResponse{Error: "Validation error", Message: err.Error()})
	default:
		h.logger.Error("analysis failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, middleware.ErrorResponse{
			Error:   "Internal server error",
			Message: "An unexpected error occurred",
		})
	}
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, database := "healthy", "connected"
	if err := h.ping(ctx); err != nil {
		status, database = "degraded", "disconnected"
	}

	writeJSON(w, http.StatusOK, types.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Version:   h.cfg.AppVersion,
		Details: map[string]interface{}{
			"app_name":    h.cfg.AppName,
			"ai_provider": h.meals.Provider(),
			"database":    database,
			"transport":   "edge",
		},
	})
}
