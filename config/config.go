package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported text-generation providers
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string
	AppName    string
	AppVersion string

	// AI provider configuration
	AIProvider      string
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIAPIURL    string
	OpenAIModel     string
	GeminiAPIKey    string
	GeminiAPIURL    string
	GeminiModel     string
	AIMaxTokens     int
	AITemperature   float64
	AITimeout       time.Duration

	// Database configuration
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	AutoMigrate bool

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Transcript export
	S3BucketName string
	AWSRegion    string

	CORSOrigins   []string
	StatsTimezone string

	LogLevel  string
	LogFormat string
}

// LoadConfig creates a new Config instance with values from the environment, an optional
// .env file and, for API keys, Docker secrets.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Environment: GetEnvironment(),

		ServerPort: v.GetString("SERVER_PORT"),
		ServerHost: v.GetString("SERVER_HOST"),
		AppName:    v.GetString("APP_NAME"),
		AppVersion: v.GetString("APP_VERSION"),

		AIProvider:      strings.ToLower(strings.TrimSpace(v.GetString("AI_PROVIDER"))),
		AnthropicAPIKey: secretOrEnv(v, "ANTHROPIC_API_KEY", "anthropic_api_key"),
		AnthropicModel:  v.GetString("ANTHROPIC_MODEL"),
		OpenAIAPIKey:    secretOrEnv(v, "OPENAI_API_KEY", "openai_api_key"),
		OpenAIAPIURL:    v.GetString("OPENAI_API_URL"),
		OpenAIModel:     v.GetString("OPENAI_MODEL"),
		GeminiAPIKey:    secretOrEnv(v, "GEMINI_API_KEY", "gemini_api_key"),
		GeminiAPIURL:    v.GetString("GEMINI_API_URL"),
		GeminiModel:     v.GetString("GEMINI_MODEL"),
		AIMaxTokens:     v.GetInt("AI_MAX_TOKENS"),
		AITemperature:   v.GetFloat64("AI_TEMPERATURE"),
		AITimeout:       v.GetDuration("AI_TIMEOUT"),

		DBDriver:    strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL: v.GetString("DATABASE_URL"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  secretOrEnv(v, "DB_PASSWORD", "db_password"),
		DBName:      v.GetString("DB_NAME"),
		DBSSLMode:   v.GetString("DB_SSL_MODE"),
		AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),

		RedisURL:      v.GetString("REDIS_URL"),
		RedisHost:     v.GetString("REDIS_HOST"),
		RedisPort:     v.GetString("REDIS_PORT"),
		RedisPassword: secretOrEnv(v, "REDIS_PASSWORD", "redis_password"),
		RedisDB:       v.GetInt("REDIS_DB"),
		CacheTTL:      v.GetDuration("CACHE_TTL"),

		S3BucketName: v.GetString("S3_BUCKET_NAME"),
		AWSRegion:    v.GetString("AWS_REGION"),

		CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
		StatsTimezone: v.GetString("STATS_TIMEZONE"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("APP_NAME", "Cal AI Backend")
	v.SetDefault("APP_VERSION", "1.0.0")

	v.SetDefault("AI_PROVIDER", ProviderAnthropic)
	v.SetDefault("ANTHROPIC_MODEL", "claude-3-haiku-20240307")
	v.SetDefault("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions")
	v.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	v.SetDefault("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta/models")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("AI_MAX_TOKENS", 1024)
	v.SetDefault("AI_TEMPERATURE", 0.7)
	v.SetDefault("AI_TIMEOUT", "30s")

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_URL", "cal_ai.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "cal_ai")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "24h")

	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("STATS_TIMEZONE", "Asia/Shanghai")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// HasAICredentials reports whether the selected provider has an API key configured
func (c *Config) HasAICredentials() bool {
	switch c.AIProvider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey != ""
	case ProviderOpenAI:
		return c.OpenAIAPIKey != ""
	case ProviderGemini:
		return c.GeminiAPIKey != ""
	}
	return false
}

// RedisEnabled reports whether a Redis endpoint was configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// PostgresDSN builds a connection string for the postgres driver. DATABASE_URL wins when it
// looks like a postgres URL.
func (c *Config) PostgresDSN() string {
	if strings.HasPrefix(c.DatabaseURL, "postgres://") || strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// secretOrEnv returns the environment value for key, falling back to a Docker secret
func secretOrEnv(v *viper.Viper, key, secret string) string {
	if value := strings.TrimSpace(v.GetString(key)); value != "" {
		return value
	}
	if file := v.GetString(key + "_FILE"); file != "" {
		if data, err := os.ReadFile(file); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return readSecret(secret)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
