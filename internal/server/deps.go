package server

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/calai/backend/config"
	"github.com/pageza/calai/backend/internal/api"
	"github.com/pageza/calai/backend/internal/database"
	"github.com/pageza/calai/backend/internal/service"
)

// BuildDependencies opens the stores and wires the services both binaries serve. The returned
// func releases the connections.
func BuildDependencies(ctx context.Context, cfg *config.Config, log *zap.Logger) (api.Dependencies, func(), error) {
	db, err := database.Open(cfg, log)
	if err != nil {
		return api.Dependencies{}, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return api.Dependencies{}, nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	closers := []func(){}
	if sqlDB, err := db.DB(); err == nil {
		closers = append(closers, func() { sqlDB.Close() })
	}
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	loc, err := time.LoadLocation(cfg.StatsTimezone)
	if err != nil {
		cleanup()
		return api.Dependencies{}, nil, fmt.Errorf("invalid STATS_TIMEZONE %q: %w", cfg.StatsTimezone, err)
	}

	deps := api.Dependencies{Config: cfg, Logger: log}

	var cache service.AnalysisCache
	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(cfg, log)
		if err != nil {
			log.Warn("redis unavailable, analysis cache disabled", zap.Error(err))
		} else {
			closers = append(closers, func() { client.Close() })
			cache = service.NewRedisAnalysisCache(client, cfg.CacheTTL)
			deps.PingCache = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}

	var storage service.ObjectStorage
	if cfg.S3BucketName != "" {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Warn("S3 unavailable, session export disabled", zap.Error(err))
		} else {
			storage = s3cfg
		}
	}

	deps.Store = service.NewSessionStore(db)
	deps.Meals = service.NewMealService(deps.Store, service.NewGenerator(cfg, log), cache, log)
	deps.Stats = service.NewStatsService(deps.Store, loc)
	deps.Exports = service.NewExportService(deps.Store, storage)

	return deps, cleanup, nil
}
