package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicGenerator calls the Messages API through the typed SDK client
type AnthropicGenerator struct {
	client anthropic.Client
	params GenerationParams
}

// NewAnthropicGenerator creates a generator. baseURL is only set by tests.
func NewAnthropicGenerator(apiKey, baseURL string, params GenerationParams) *AnthropicGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if params.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(params.Timeout))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &AnthropicGenerator{
		client: anthropic.NewClient(opts...),
		params: params,
	}
}

func (g *AnthropicGenerator) Name() string {
	return "anthropic"
}

func (g *AnthropicGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(g.params.Model),
		MaxTokens:   int64(g.params.MaxTokens),
		Temperature: anthropic.Float(g.params.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: anthropic request failed: %v", ErrGatewayUnavailable, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: anthropic returned no text content", ErrGatewayUnavailable)
	}

	return text.String(), nil
}
