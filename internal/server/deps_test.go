package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pageza/calai/backend/config"
	"github.com/pageza/calai/backend/internal/types"
)

func localConfig(t *testing.T) *config.Config {
	return &config.Config{
		AIProvider:    config.ProviderAnthropic,
		AITimeout:     time.Second,
		DBDriver:      config.DriverSQLite,
		DatabaseURL:   filepath.Join(t.TempDir(), "cal_ai.db"),
		AutoMigrate:   true,
		StatsTimezone: "Asia/Shanghai",
	}
}

func TestBuildDependencies(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	deps, cleanup, err := BuildDependencies(context.Background(), localConfig(t), zap.New(core))
	require.NoError(t, err)
	t.Cleanup(cleanup)

	assert.Nil(t, deps.PingCache)
	assert.False(t, deps.Exports.Enabled())
	assert.Equal(t, "Asia/Shanghai", deps.Stats.Location().String())
	assert.NoError(t, deps.Store.Ping(context.Background()))

	// no API key: the request is answered with the fallback estimate
	resp, err := deps.Meals.Analyze(context.Background(), types.AnalyzeMealRequest{Message: "rice"})
	require.NoError(t, err)
	assert.InDelta(t, 500, resp.Nutrition.TotalCalories, 1e-9)

	assert.Equal(t, 1, logs.FilterMessageSnippet("no API key").Len())

	analyzed := logs.FilterMessage("meal analyzed").All()
	require.Len(t, analyzed, 1)
	assert.Equal(t, "meal", analyzed[0].LoggerName)
}

func TestBuildDependenciesInvalidTimezone(t *testing.T) {
	cfg := localConfig(t)
	cfg.StatsTimezone = "Mars/Olympus_Mons"

	_, _, err := BuildDependencies(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "invalid STATS_TIMEZONE")
}
