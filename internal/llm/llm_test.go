package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExtractJSONObjectPlain(t *testing.T) {
	got, err := ExtractJSONObject(`{"key": "value", "num": 42}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(got, &m); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if m["key"] != "value" || m["num"] != float64(42) {
		t.Errorf("unexpected result: %v", m)
	}
}

func TestExtractJSONObjectWithCodeFence(t *testing.T) {
	text := "```json\n{\"key\": \"value\"}\n```"
	got, err := ExtractJSONObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"key": "value"}` {
		t.Errorf("unexpected result: %s", got)
	}
}

func TestExtractJSONObjectSurroundedByProse(t *testing.T) {
	text := "Here is the analysis you asked for:\n{\"a\": {\"b\": [1, 2]}}\nLet me know if {you} need more."
	got, err := ExtractJSONObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"a": {"b": [1, 2]}}` {
		t.Errorf("expected first balanced object only, got %s", got)
	}
}

func TestExtractJSONObjectBracesInStrings(t *testing.T) {
	text := `{"summary": "closing brace } and opening { inside", "quote": "she said \"{\""}`
	got, err := ExtractJSONObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != text {
		t.Errorf("expected whole object, got %s", got)
	}
}

func TestExtractJSONObjectSkipsInvalidLeadingRegion(t *testing.T) {
	text := "Template: {name} then {\"name\": \"real\"}"
	got, err := ExtractJSONObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"name": "real"}` {
		t.Errorf("unexpected result: %s", got)
	}
}

func TestExtractJSONObjectUnclosedThenValid(t *testing.T) {
	text := "{ stray opener {\"ok\": true}"
	got, err := ExtractJSONObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"ok": true}` {
		t.Errorf("unexpected result: %s", got)
	}
}

func TestExtractJSONObjectIgnoresObjectsInsideBrokenRegion(t *testing.T) {
	text := `{"risks": {"adoptionCliff": {"score": 80}}, "confidence": HIGH}`
	if got, err := ExtractJSONObject(text); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("expected ErrInvalidJSON, got %s, %v", got, err)
	}
}

func TestExtractJSONObjectAfterBrokenRegion(t *testing.T) {
	text := `Draft: {"a": {"b": 1}, bad} Final: {"ok": true}`
	got, err := ExtractJSONObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"ok": true}` {
		t.Errorf("unexpected result: %s", got)
	}
}

func TestExtractJSONObjectNone(t *testing.T) {
	for _, text := range []string{"", "not json at all", "only a closer }", "{ never closed"} {
		if _, err := ExtractJSONObject(text); !errors.Is(err, ErrNoJSONObject) {
			t.Errorf("%q: expected ErrNoJSONObject, got %v", text, err)
		}
	}
}

func TestExtractJSONObjectInvalid(t *testing.T) {
	if _, err := ExtractJSONObject("{not: valid, json}"); !errors.Is(err, ErrInvalidJSON) {
		t.Errorf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestAnthropicGenerate(t *testing.T) {
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "sk-test" {
			t.Errorf("expected api key header, got %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("expected version header, got %q", r.Header.Get("anthropic-version"))
		}
		if r.Header.Get("anthropic-dangerous-direct-browser-access") != "true" {
			t.Error("expected direct browser access header")
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content": [{"type": "text", "text": "hello"}]}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("claude-test", srv.URL+"/", "sk-test", srv.Client())
	text, err := p.Generate(context.Background(), "prompt text", 4096)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello" {
		t.Errorf("expected 'hello', got %q", text)
	}
	if gotReq.Model != "claude-test" || gotReq.MaxTokens != 4096 {
		t.Errorf("unexpected request body: %+v", gotReq)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" || gotReq.Messages[0].Content != "prompt text" {
		t.Errorf("expected single user message, got %+v", gotReq.Messages)
	}
}

func TestAnthropicErrorWithMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type": "error", "error": {"type": "authentication_error", "message": "invalid x-api-key"}}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("m", srv.URL, "bad", srv.Client())
	_, err := p.Generate(context.Background(), "p", 10)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", apiErr.Status)
	}
	if err.Error() != "invalid x-api-key" {
		t.Errorf("expected provider message, got %q", err.Error())
	}
}

func TestAnthropicErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("m", srv.URL, "k", srv.Client())
	_, err := p.Generate(context.Background(), "p", 10)
	if err == nil || err.Error() != "API error: 502" {
		t.Errorf("expected generic status message, got %v", err)
	}
}

func TestAnthropicEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content": []}`))
	}))
	defer srv.Close()

	p := NewAnthropicProvider("m", srv.URL, "k", srv.Client())
	if _, err := p.Generate(context.Background(), "p", 10); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"message": {"content": "{\"ok\": true}"}}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider("qwen2.5:7b", srv.URL, srv.Client())
	text, err := p.Generate(context.Background(), "p", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"ok": true}` {
		t.Errorf("unexpected text %q", text)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"choices": [{"message": {"content": "{\"ok\": true}"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("gpt-test", "sk-test", srv.Client())
	p.baseURL = srv.URL
	text, err := p.Generate(context.Background(), "p", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != `{"ok": true}` {
		t.Errorf("unexpected text %q", text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("unexpected Authorization %q", gotAuth)
	}
	if gotBody["model"] != "gpt-test" {
		t.Errorf("unexpected model in body: %v", gotBody["model"])
	}
}

func TestOpenAIErrorWithMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "Rate limit reached"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("m", "k", srv.Client())
	p.baseURL = srv.URL
	_, err := p.Generate(context.Background(), "p", 10)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusTooManyRequests || err.Error() != "Rate limit reached" {
		t.Errorf("unexpected error %d %q", apiErr.Status, err.Error())
	}
}

func TestOpenAINoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("m", "k", srv.Client())
	p.baseURL = srv.URL
	if _, err := p.Generate(context.Background(), "p", 10); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": [{"content": {"role": "model", "parts": [{"text": "hello"}]}}]}`))
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), "gemini-test", srv.URL+"/", "g-key", srv.Client())
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	text, err := p.Generate(context.Background(), "p", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello" {
		t.Errorf("expected 'hello', got %q", text)
	}
	if !strings.HasSuffix(gotPath, "gemini-test:generateContent") {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotKey != "g-key" {
		t.Errorf("unexpected api key header %q", gotKey)
	}
}

func TestGeminiErrorIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`))
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), "gemini-test", srv.URL+"/", "bad", srv.Client())
	if err != nil {
		t.Fatalf("NewGeminiProvider: %v", err)
	}
	_, err = p.Generate(context.Background(), "p", 10)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusForbidden || err.Error() != "API key not valid" {
		t.Errorf("unexpected error %d %q", apiErr.Status, err.Error())
	}
}

func TestNewFactory(t *testing.T) {
	for _, name := range []string{"", "anthropic", "OpenAI", "ollama"} {
		f, err := NewFactory(Options{Provider: name, Timeout: time.Second})
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
		p, err := f("key")
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
		if p == nil {
			t.Fatalf("%q: expected provider", name)
		}
	}

	if _, err := NewFactory(Options{Provider: "mystery"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestRequiresKey(t *testing.T) {
	if !RequiresKey("anthropic") || !RequiresKey("gemini") {
		t.Error("expected hosted providers to require a key")
	}
	if RequiresKey("Ollama") {
		t.Error("expected ollama not to require a key")
	}
}
