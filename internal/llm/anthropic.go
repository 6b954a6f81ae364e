package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

const anthropicVersion = "2023-06-01"

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	Model   string
	BaseURL string
	APIKey  string
	client  *http.Client
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(model, baseURL, apiKey string, client *http.Client) *AnthropicProvider {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	return &AnthropicProvider{
		Model:   model,
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		client:  client,
	}
}

func (a *AnthropicProvider) Name() string { return "anthropic" }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends a single user message and returns the text of the first
// content block.
func (a *AnthropicProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body := anthropicRequest{
		Model:     a.Model,
		MaxTokens: maxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"x-api-key":         a.APIKey,
		"anthropic-version": anthropicVersion,
		"anthropic-dangerous-direct-browser-access": "true",
	}

	var result anthropicResponse
	status, err := postJSON(ctx, a.client, a.BaseURL+"/v1/messages", headers, body, &result)
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	if status/100 != 2 {
		apiErr := &APIError{Provider: a.Name(), Status: status}
		if result.Error != nil {
			apiErr.Message = result.Error.Message
		}
		return "", apiErr
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("no content in anthropic response")
	}
	return result.Content[0].Text, nil
}
