package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const openAISystemPrompt = "You are a professional nutritionist AI assistant."

// chatMessage represents a message in an OpenAI-compatible chat request
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	MaxTokens      int               `json:"max_tokens"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// OpenAIGenerator posts to an OpenAI-compatible chat completions endpoint
type OpenAIGenerator struct {
	apiKey string
	apiURL string
	params GenerationParams
	client *http.Client
}

func NewOpenAIGenerator(apiKey, apiURL string, params GenerationParams) *OpenAIGenerator {
	return &OpenAIGenerator{
		apiKey: apiKey,
		apiURL: apiURL,
		params: params,
		client: &http.Client{Timeout: params.Timeout},
	}
}

func (g *OpenAIGenerator) Name() string {
	return "openai"
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: g.params.Model,
		Messages: []chatMessage{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   g.params.MaxTokens,
		Temperature: g.params.Temperature,
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrGatewayUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrGatewayUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.apiKey))

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to send request: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: openai request failed with status %d: %s",
			ErrGatewayUnavailable, resp.StatusCode, readErrorBody(resp))
	}

	var result chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrGatewayUnavailable, err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no response from API", ErrGatewayUnavailable)
	}

	return result.Choices[0].Message.Content, nil
}
