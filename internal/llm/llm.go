package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Provider is the interface for LLM providers.
type Provider interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
	Name() string
}

// Factory builds a provider for a user-supplied API key.
type Factory func(apiKey string) (Provider, error)

// Options selects and configures a provider.
type Options struct {
	Provider    string
	Model       string
	BaseURL     string
	OpenAIModel string
	OllamaURL   string
	GeminiModel string
	Timeout     time.Duration
}

// APIError is a non-success response from a provider endpoint.
type APIError struct {
	Provider string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error: %d", e.Status)
}

// RequiresKey reports whether the named provider needs an API key.
func RequiresKey(provider string) bool {
	return strings.ToLower(provider) != "ollama"
}

// NewFactory returns a Factory for the configured provider.
func NewFactory(opts Options) (Factory, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 180 * time.Second
	}
	client := &http.Client{Timeout: opts.Timeout}

	switch strings.ToLower(opts.Provider) {
	case "", "anthropic":
		return func(apiKey string) (Provider, error) {
			return NewAnthropicProvider(opts.Model, opts.BaseURL, apiKey, client), nil
		}, nil
	case "openai":
		return func(apiKey string) (Provider, error) {
			return NewOpenAIProvider(opts.OpenAIModel, apiKey, client), nil
		}, nil
	case "ollama":
		return func(string) (Provider, error) {
			return NewOllamaProvider(opts.Model, opts.OllamaURL, client), nil
		}, nil
	case "gemini":
		return func(apiKey string) (Provider, error) {
			return NewGeminiProvider(context.Background(), opts.GeminiModel, "", apiKey, client)
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", opts.Provider)
	}
}

// OllamaProvider is a local Ollama LLM provider.
type OllamaProvider struct {
	Model   string
	BaseURL string
	client  *http.Client
}

// NewOllamaProvider creates a new Ollama provider.
func NewOllamaProvider(model, baseURL string, client *http.Client) *OllamaProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &OllamaProvider{Model: model, BaseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (o *OllamaProvider) Name() string { return "ollama" }

// Generate sends a prompt to Ollama and returns the response.
func (o *OllamaProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body := map[string]any{
		"model": o.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"stream": false,
		"options": map[string]any{
			"num_predict": maxTokens,
		},
	}

	var result struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Error string `json:"error"`
	}
	status, err := postJSON(ctx, o.client, o.BaseURL+"/api/chat", nil, body, &result)
	if err != nil {
		return "", fmt.Errorf("ollama API error: %w", err)
	}
	if status != http.StatusOK {
		return "", &APIError{Provider: o.Name(), Status: status, Message: result.Error}
	}
	return result.Message.Content, nil
}

// OpenAIProvider is an OpenAI API provider.
type OpenAIProvider struct {
	Model   string
	APIKey  string
	baseURL string
	client  *http.Client
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(model, apiKey string, client *http.Client) *OpenAIProvider {
	return &OpenAIProvider{Model: model, APIKey: apiKey, baseURL: "https://api.openai.com", client: client}
}

func (o *OpenAIProvider) Name() string { return "openai" }

// Generate sends a prompt to OpenAI and returns the response.
func (o *OpenAIProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body := map[string]any{
		"model": o.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens": maxTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + o.APIKey}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	status, err := postJSON(ctx, o.client, o.baseURL+"/v1/chat/completions", headers, body, &result)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if status != http.StatusOK {
		apiErr := &APIError{Provider: o.Name(), Status: status}
		if result.Error != nil {
			apiErr.Message = result.Error.Message
		}
		return "", apiErr
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}
	return result.Choices[0].Message.Content, nil
}

// postJSON posts body as JSON and decodes the response into out, whatever
// the status. A body that cannot be decoded is ignored on non-2xx responses
// so callers can fall back to the status code.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body, out any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if err := json.Unmarshal(respBody, out); err != nil && resp.StatusCode/100 == 2 {
		return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	return resp.StatusCode, nil
}
