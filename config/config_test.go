package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("CACHE_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://app.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, ProviderOpenAI, cfg.AIProvider)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.True(t, cfg.HasAICredentials())

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "host=db port=5432 user=postgres password=secret dbname=cal_ai sslmode=disable", cfg.PostgresDSN())

	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 2*time.Hour, cfg.CacheTTL)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"AI_PROVIDER", "ANTHROPIC_API_KEY", "DB_DRIVER", "DATABASE_URL", "REDIS_URL", "REDIS_HOST", "CORS_ORIGINS", "AI_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, "Cal AI Backend", cfg.AppName)
	assert.Equal(t, "1.0.0", cfg.AppVersion)
	assert.Equal(t, ProviderAnthropic, cfg.AIProvider)
	assert.Equal(t, "claude-3-haiku-20240307", cfg.AnthropicModel)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAIModel)
	assert.Equal(t, 1024, cfg.AIMaxTokens)
	assert.InDelta(t, 0.7, cfg.AITemperature, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "cal_ai.db", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "Asia/Shanghai", cfg.StatsTimezone)

	assert.False(t, cfg.HasAICredentials())
	assert.False(t, cfg.RedisEnabled())
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Environment:   Test,
			AIProvider:    ProviderAnthropic,
			DBDriver:      DriverSQLite,
			AIMaxTokens:   1024,
			AITemperature: 0.7,
			AITimeout:     30 * time.Second,
			CacheTTL:      time.Hour,
			StatsTimezone: "UTC",
			LogLevel:      "info",
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(valid()))
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := valid()
		cfg.AIProvider = "llama"
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AI_PROVIDER")
	})

	t.Run("bad timezone and driver", func(t *testing.T) {
		cfg := valid()
		cfg.DBDriver = "mysql"
		cfg.StatsTimezone = "Mars/Olympus"
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_DRIVER")
		assert.Contains(t, err.Error(), "STATS_TIMEZONE")
	})

	t.Run("production requires database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		cfg := valid()
		cfg.Environment = Production
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DATABASE_URL")
	})
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "Production")
	assert.Equal(t, Production, GetEnvironment())
	assert.True(t, IsProduction())

	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())

	t.Setenv("CI", "")
	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
}

func TestSecretFallback(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anthropic_api_key"), []byte("sk-ant-from-secret\n"), 0o600))

	assert.Equal(t, "sk-ant-from-secret", readSecret("anthropic_api_key"))
	assert.Equal(t, "", readSecret("missing"))
}
