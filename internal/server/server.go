package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/calai/backend/internal/api"
	"github.com/pageza/calai/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New creates the gin server with the full API mounted
func New(deps api.Dependencies) *Server {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(deps.Logger.Named("http")),
		middleware.Recovery(deps.Logger),
		middleware.Metrics(),
		middleware.CORS(deps.Config.CORSOrigins),
	)

	api.RegisterRoutes(router, deps)

	return &Server{
		router: router,
		logger: deps.Logger,
		http: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", deps.Config.ServerHost, deps.Config.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			// analyses wait on the provider, so writes get the AI timeout plus headroom
			WriteTimeout: deps.Config.AITimeout + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving requests until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.http.Shutdown(ctx)
}
