package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GeminiProvider calls Google's Gemini API through the genai SDK.
type GeminiProvider struct {
	Model  string
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider. An empty baseURL uses the
// SDK's default endpoint.
func NewGeminiProvider(ctx context.Context, model, baseURL, apiKey string, httpClient *http.Client) (*GeminiProvider, error) {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiProvider{Model: model, client: client}, nil
}

func (g *GeminiProvider) Name() string { return "gemini" }

// Generate sends a prompt to Gemini and returns the concatenated text parts.
func (g *GeminiProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("gemini request: %w", err)
		}
		var gerr genai.APIError
		if errors.As(err, &gerr) {
			return "", &APIError{Provider: g.Name(), Status: gerr.Code, Message: gerr.Message}
		}
		return "", &APIError{Provider: g.Name(), Message: err.Error()}
	}
	return resp.Text(), nil
}
