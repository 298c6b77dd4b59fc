package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredEnvVars []string
}

var (
	// Environment-specific requirements. Development and test run against sqlite with defaults.
	requirements = map[Environment]ConfigRequirements{
		Development: {},
		Test:        {},
		CI: {
			RequiredEnvVars: []string{
				"DB_DRIVER",
			},
		},
		Production: {
			RequiredEnvVars: []string{
				"SERVER_PORT",
				"DB_DRIVER",
				"DATABASE_URL",
				"AI_PROVIDER",
			},
		},
	}

	validProviders = map[string]bool{
		ProviderAnthropic: true,
		ProviderOpenAI:    true,
		ProviderGemini:    true,
	}

	validDrivers = map[string]bool{
		DriverSQLite:   true,
		DriverPostgres: true,
	}

	validLogLevels = map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	for _, envVar := range requirements[cfg.Environment].RequiredEnvVars {
		if value := os.Getenv(envVar); value == "" {
			errs = append(errs, ValidationError{Field: envVar, Message: "required environment variable is not set"})
		}
	}

	if !validProviders[cfg.AIProvider] {
		errs = append(errs, ValidationError{Field: "AI_PROVIDER", Message: fmt.Sprintf("unsupported provider %q", cfg.AIProvider)})
	}
	if !validDrivers[cfg.DBDriver] {
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}
	if cfg.AIMaxTokens <= 0 {
		errs = append(errs, ValidationError{Field: "AI_MAX_TOKENS", Message: "must be positive"})
	}
	if cfg.AITemperature < 0 || cfg.AITemperature > 2 {
		errs = append(errs, ValidationError{Field: "AI_TEMPERATURE", Message: "must be between 0 and 2"})
	}
	if cfg.AITimeout <= 0 {
		errs = append(errs, ValidationError{Field: "AI_TIMEOUT", Message: "must be a positive duration"})
	}
	if cfg.CacheTTL < time.Second {
		errs = append(errs, ValidationError{Field: "CACHE_TTL", Message: "must be at least one second"})
	}
	if _, err := time.LoadLocation(cfg.StatsTimezone); err != nil {
		errs = append(errs, ValidationError{Field: "STATS_TIMEZONE", Message: err.Error()})
	}
	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		errs = append(errs, ValidationError{Field: "LOG_LEVEL", Message: fmt.Sprintf("unknown level %q", cfg.LogLevel)})
	}

	if len(errs) > 0 {
		lines := make([]string, len(errs))
		for i, e := range errs {
			lines[i] = e.Error()
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(lines, "\n"))
	}

	return nil
}
