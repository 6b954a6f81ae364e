package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/lineofflight/changeos/internal/llm"
	"github.com/lineofflight/changeos/internal/signals"
)

const (
	msgMissingKey    = "Please add your API key in Settings first."
	msgNoSignals     = "Add at least one signal before running analysis."
	msgParseFailed   = "Could not parse analysis response"
	defaultMaxTokens = 4096
)

// ParseError means the model replied but no usable analysis could be read
// from the reply.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return msgParseFailed }

func (e *ParseError) Unwrap() error { return e.Err }

// Client runs one analysis per call against the configured provider.
type Client struct {
	factory   llm.Factory
	provider  string
	maxTokens int
	now       func() time.Time
}

// NewClient creates an analysis client. providerName is used to decide
// whether an API key is required.
func NewClient(factory llm.Factory, providerName string, maxTokens int) *Client {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{factory: factory, provider: providerName, maxTokens: maxTokens, now: time.Now}
}

// Provider returns the configured provider name.
func (c *Client) Provider() string { return c.provider }

// Analyse sends the signals to the model and decodes its answer. Inputs are
// checked before any network call is made.
func (c *Client) Analyse(ctx context.Context, apiKey string, list []signals.Signal, initiative signals.Initiative) (*Analysis, error) {
	if apiKey == "" && llm.RequiresKey(c.provider) {
		return nil, &signals.ValidationError{Field: "apiKey", Message: msgMissingKey}
	}
	if len(list) == 0 {
		return nil, &signals.ValidationError{Field: "signals", Message: msgNoSignals}
	}

	provider, err := c.factory(apiKey)
	if err != nil {
		return nil, fmt.Errorf("creating %s provider: %w", c.provider, err)
	}

	prompt := BuildPrompt(list, initiative, c.now())
	log.Printf("Analysing %d signals with %s", len(list), provider.Name())

	text, err := provider.Generate(ctx, prompt, c.maxTokens)
	if err != nil {
		return nil, err
	}

	a, err := Decode(text)
	if err != nil {
		return nil, err
	}
	for _, issue := range a.Issues() {
		log.Printf("Analysis flagged: %s", issue)
	}
	return a, nil
}

// Decode extracts the first JSON object from model output and decodes it.
// An object with none of the analysis keys is a ParseError.
func Decode(text string) (*Analysis, error) {
	raw, err := llm.ExtractJSONObject(text)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("decoding analysis: %w", err)}
	}
	known := slices.ContainsFunc(schemaKeys, func(k string) bool {
		_, ok := fields[k]
		return ok
	})
	if !known {
		return nil, &ParseError{Err: errNotAnalysis}
	}
	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("decoding analysis: %w", err)}
	}
	return &a, nil
}

var errNotAnalysis = errors.New("object has no analysis fields")

// schemaKeys are the top-level keys of an analysis object; a reply must
// carry at least one of them.
var schemaKeys = []string{
	"lastRun", "confidence", "dataGaps", "risks", "interventionWindow",
	"signalClusters", "interventions", "recentSignals", "sayDoGap",
	"keyQuotes", "trajectory",
}

// IsParseError reports whether err is or wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
