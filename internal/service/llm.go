package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/calai/backend/config"
)

// Generator sends a prompt to a text-generation provider and returns the raw reply. Every
// failure is reported as ErrGatewayUnavailable.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// GenerationParams are the fixed sampling parameters shared by every provider
type GenerationParams struct {
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// NewGenerator returns the provider selected by AI_PROVIDER. Without credentials the
// returned generator always fails so callers fall back.
func NewGenerator(cfg *config.Config, logger *zap.Logger) Generator {
	log := logger.Named("llm")

	if !cfg.HasAICredentials() {
		log.Warn("no API key configured for provider, analyses will use the fallback estimate",
			zap.String("provider", cfg.AIProvider))
		return &unavailableGenerator{provider: cfg.AIProvider}
	}

	params := GenerationParams{
		MaxTokens:   cfg.AIMaxTokens,
		Temperature: cfg.AITemperature,
		Timeout:     cfg.AITimeout,
	}

	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		params.Model = cfg.OpenAIModel
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIAPIURL, params)
	case config.ProviderGemini:
		params.Model = cfg.GeminiModel
		return NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiAPIURL, params)
	default:
		params.Model = cfg.AnthropicModel
		return NewAnthropicGenerator(cfg.AnthropicAPIKey, "", params)
	}
}

type unavailableGenerator struct {
	provider string
}

func (g *unavailableGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", fmt.Errorf("%w: no credentials configured for %s", ErrGatewayUnavailable, g.provider)
}

func (g *unavailableGenerator) Name() string {
	return g.provider
}

// readErrorBody returns a short excerpt of a failed provider response for error messages
func readErrorBody(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 512))
	if err != nil {
		return ""
	}
	return string(body)
}
