package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/lineofflight/changeos/internal/llm"
	"github.com/lineofflight/changeos/internal/signals"
)

const fullAnalysis = `{
  "lastRun": "2025-03-04T09:30:00.000Z",
  "confidence": "MEDIUM",
  "dataGaps": "No survey data after week 4",
  "risks": {
    "technicalDebt": {"level": "MEDIUM", "score": 55, "trend": "stable", "summary": "Spreadsheets persist"},
    "adoptionCliff": {"level": "CRITICAL", "score": 82, "trend": "declining", "summary": "Training is not sticking"},
    "attritionRisk": {"level": "HIGH", "score": 68, "trend": "declining", "summary": "Key users are overloaded"}
  },
  "interventionWindow": {"weeksRemaining": 3, "status": "CLOSING", "message": "Act before go-live", "originalWindow": 8},
  "signalClusters": {
    "cluster1": {"status": "severe", "score": 80, "label": "Training gap", "evidence": ["Completion 95%", "Competence 40%"], "interpretation": "Box ticking"},
    "cluster2": {"status": "normal", "score": 20, "label": "Sponsorship", "evidence": ["Visible CEO"], "interpretation": "Fine"}
  },
  "interventions": [
    {"priority": 1, "action": "Floor walkers", "timing": "Week 6", "cost": "Low", "impact": "High", "status": "recommended"}
  ],
  "recentSignals": [
    {"week": 5, "severity": "critical", "signal": "Overtime up 30%", "source": "HR"}
  ],
  "sayDoGap": [
    {"said": "Everyone is trained", "reality": "40% competent", "week": 4, "source": "LMS"}
  ],
  "keyQuotes": [
    {"quote": "I just use my old spreadsheet", "speaker": "Analyst", "week": 5, "context": "Floor walk"}
  ]
}`

type mockProvider struct {
	response string
	err      error
	calls    int
	prompt   string
}

func (m *mockProvider) Generate(_ context.Context, prompt string, _ int) (string, error) {
	m.calls++
	m.prompt = prompt
	return m.response, m.err
}

func (m *mockProvider) Name() string { return "mock" }

func newTestClient(p *mockProvider, providerName string) *Client {
	c := NewClient(func(string) (llm.Provider, error) { return p, nil }, providerName, 0)
	c.now = func() time.Time { return time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC) }
	return c
}

func testSignals() []signals.Signal {
	return []signals.Signal{
		{ID: "a", Type: signals.MeetingNotes, Week: 2, Title: "Steering group", Content: "Go-live confirmed"},
		{ID: "b", Type: signals.Support, Week: 1, Title: "Ticket spike", Content: "40 tickets"},
	}
}

func TestAnalyseReturnsEmbeddedObject(t *testing.T) {
	p := &mockProvider{response: "Here you go:\n```json\n" + fullAnalysis + "\n```\nThanks!"}
	c := newTestClient(p, "anthropic")

	a, err := c.Analyse(context.Background(), "sk-test", testSignals(), signals.DefaultInitiative())
	if err != nil {
		t.Fatalf("Analyse: %v", err)
	}

	got, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	var gotMap, wantMap map[string]any
	json.Unmarshal(got, &gotMap)
	json.Unmarshal([]byte(fullAnalysis), &wantMap)
	if diff := cmp.Diff(wantMap, gotMap); diff != "" {
		t.Errorf("analysis mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalysePreservesMapOrder(t *testing.T) {
	a, err := Decode(fullAnalysis)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	var keys []string
	for _, r := range a.RiskList() {
		keys = append(keys, r.Key)
	}
	if diff := cmp.Diff([]string{"technicalDebt", "adoptionCliff", "attritionRisk"}, keys); diff != "" {
		t.Errorf("risk order mismatch (-want +got):\n%s", diff)
	}

	out, _ := json.Marshal(a.Risks)
	if !strings.HasPrefix(string(out), `{"technicalDebt"`) {
		t.Errorf("expected order kept on encode, got %s", out)
	}
}

func TestCriticalClusters(t *testing.T) {
	a, _ := Decode(fullAnalysis)
	got := a.CriticalClusters()
	if len(got) != 1 || got[0].Value.Label != "Training gap" {
		t.Errorf("expected only the severe cluster, got %+v", got)
	}
	if len(a.ClusterList()) != 2 {
		t.Error("CriticalClusters must not modify the analysis")
	}
}

func TestAnalysePromptContents(t *testing.T) {
	p := &mockProvider{response: fullAnalysis}
	c := newTestClient(p, "anthropic")
	initiative := signals.Initiative{Name: "CRM Rollout", Organisation: "Acme Ltd", Timeline: 16}

	if _, err := c.Analyse(context.Background(), "k", testSignals(), initiative); err != nil {
		t.Fatalf("Analyse: %v", err)
	}

	for _, want := range []string{
		"You are ChangeOS",
		"- Name: CRM Rollout",
		"- Organisation: Acme Ltd",
		"- Timeline: 16 weeks",
		"[MEETING_NOTES - Week 2] Steering group\nGo-live confirmed\n\n---\n\n[SUPPORT - Week 1] Ticket spike\n40 tickets",
		"ADOPTION CLIFF LENS",
		"ATTRITION RISK LENS",
		"TECHNICAL DEBT LENS",
		`"lastRun": "2025-03-04T09:30:00.000Z"`,
		"Be specific. Cite evidence.",
	} {
		if !strings.Contains(p.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAnalyseValidation(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		key      string
		signals  []signals.Signal
		want     string
	}{
		{"missing key", "anthropic", "", testSignals(), msgMissingKey},
		{"no signals", "anthropic", "k", nil, msgNoSignals},
		{"key checked first", "anthropic", "", nil, msgMissingKey},
		{"ollama needs no key", "ollama", "", nil, msgNoSignals},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &mockProvider{response: fullAnalysis}
			c := newTestClient(p, tt.provider)

			_, err := c.Analyse(context.Background(), tt.key, tt.signals, signals.DefaultInitiative())
			var ve *signals.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, ve.Error())
			}
			if p.calls != 0 {
				t.Errorf("expected no provider call, got %d", p.calls)
			}
		})
	}
}

func TestAnalyseParseErrors(t *testing.T) {
	for name, response := range map[string]string{
		"no object":    "I cannot help with that.",
		"invalid json": "{risks: none}",
		"wrong type":   `{"risks": {"adoptionCliff": {"score": "very high"}}}`,
		"list as map":  `{"interventions": {"priority": 1}}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(&mockProvider{response: response}, "anthropic")
			a, err := c.Analyse(context.Background(), "k", testSignals(), signals.DefaultInitiative())
			if a != nil {
				t.Error("expected no analysis")
			}
			if !IsParseError(err) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if err.Error() != "Could not parse analysis response" {
				t.Errorf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestAnalysePassesThroughAPIError(t *testing.T) {
	apiErr := &llm.APIError{Provider: "anthropic", Status: 429}
	c := newTestClient(&mockProvider{err: apiErr}, "anthropic")

	_, err := c.Analyse(context.Background(), "k", testSignals(), signals.DefaultInitiative())
	var got *llm.APIError
	if !errors.As(err, &got) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if err.Error() != "API error: 429" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestDecodeRejectsUnknownShapes(t *testing.T) {
	for name, text := range map[string]string{
		"empty object":  "{}",
		"foreign keys":  `{"answer": "risky", "score": 80}`,
		"nested in bad": `{"risks": {"adoptionCliff": {"level": "HIGH", "score": 80}}, "confidence": HIGH}`,
	} {
		t.Run(name, func(t *testing.T) {
			a, err := Decode(text)
			if a != nil {
				t.Errorf("expected no analysis, got %+v", a)
			}
			if !IsParseError(err) {
				t.Fatalf("expected ParseError, got %v", err)
			}
		})
	}
}

func TestDecodeSingleField(t *testing.T) {
	a, err := Decode(`{"confidence": "LOW"}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.Confidence != "LOW" || a.RiskList() != nil || a.InterventionWindow != nil {
		t.Errorf("unexpected analysis %+v", a)
	}
}

func TestIssues(t *testing.T) {
	a, err := Decode(`{
		"confidence": "SORT OF",
		"risks": {"adoptionCliff": {"level": "EXTREME", "score": 140, "trend": "stable", "summary": ""}},
		"interventionWindow": {"weeksRemaining": -1, "status": "AJAR"},
		"recentSignals": [{"week": 1, "severity": "loud"}]
	}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := len(a.Issues()); got != 6 {
		t.Errorf("expected 6 issues, got %d: %v", got, a.Issues())
	}

	full, _ := Decode(fullAnalysis)
	if issues := full.Issues(); len(issues) != 0 {
		t.Errorf("expected no issues for well-formed analysis, got %v", issues)
	}
}

func TestNilAnalysisHelpers(t *testing.T) {
	var a *Analysis
	if a.RiskList() != nil || a.CriticalClusters() != nil || a.Issues() != nil {
		t.Error("expected nil results for nil analysis")
	}
}
