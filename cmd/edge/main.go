package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/calai/backend/config"
	"github.com/pageza/calai/backend/internal/edge"
	"github.com/pageza/calai/backend/internal/server"
	"github.com/pageza/calai/backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New(logger.Config{Level: "info"}).Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.Environment != config.Production,
	})
	defer log.Sync()

	deps, cleanup, err := server.BuildDependencies(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("failed to initialize services", zap.Error(err))
	}
	defer cleanup()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:           edge.NewRouter(cfg, deps.Meals, deps.Store.Ping, log),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.AITimeout + 15*time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("starting edge server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Error("server error", zap.Error(err))
			return
		}
	case sig := <-quit:
		log.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
}
