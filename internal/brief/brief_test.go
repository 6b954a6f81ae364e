package brief

import (
	"strings"
	"testing"
	"time"

	"github.com/lineofflight/changeos/internal/analysis"
	"github.com/lineofflight/changeos/internal/signals"
)

var testNow = time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC)

var testInitiative = signals.Initiative{Name: "Finance System Transformation", Organisation: "Meridian Health", Timeline: 12}

var sectionHeaders = []string{
	"# Weekly Change Brief",
	"## Executive Summary",
	"## Critical Findings",
	"## Recommended Interventions",
	"## Data Quality",
	"*Generated by ChangeOS · Line Of Flight*",
}

func decode(t *testing.T, s string) *analysis.Analysis {
	t.Helper()
	a, err := analysis.Decode(s)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return a
}

func TestRenderEmptyAnalysis(t *testing.T) {
	for name, a := range map[string]*analysis.Analysis{
		"nil":   nil,
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			got := Render(a, testInitiative, nil, testNow)
			for _, h := range sectionHeaders {
				if !strings.Contains(got, h) {
					t.Errorf("missing %q", h)
				}
			}
			body := strings.SplitN(got, "## Data Quality", 2)[0]
			for _, unwanted := range []string{"- **", "1. **"} {
				if strings.Contains(body, unwanted) {
					t.Errorf("unexpected entry %q in empty brief", unwanted)
				}
			}
			if strings.Count(got, "### ") != 1 {
				t.Errorf("expected only the organisation heading, got:\n%s", got)
			}
			if !strings.Contains(got, "**Confidence level:** Medium\n") {
				t.Error("expected default confidence")
			}
			if !strings.Contains(got, "**Gaps:** None identified\n") {
				t.Error("expected default gaps")
			}
		})
	}
}

func TestRenderHeader(t *testing.T) {
	list := []signals.Signal{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	got := Render(nil, testInitiative, list, testNow)

	want := "# Weekly Change Brief\n## Finance System Transformation\n### Meridian Health\n" +
		"**Date:** Monday, 16 June 2025\n**Signals analysed:** 3\n\n---\n\n## Executive Summary\n\n"
	if !strings.HasPrefix(got, want) {
		t.Errorf("unexpected header:\n%s", got)
	}
	if !strings.Contains(got, "**Signals this week:** 3\n") {
		t.Error("expected signal count in data quality")
	}
}

func TestRenderFullAnalysis(t *testing.T) {
	a := decode(t, `{
		"confidence": "HIGH",
		"dataGaps": "No night shift data",
		"risks": {
			"adoptionCliff": {"level": "CRITICAL", "score": 87, "trend": "declining", "summary": "Training not sticking"},
			"attritionRisk": {"level": "HIGH", "score": 72, "trend": "stable", "summary": "Super-users overloaded"}
		},
		"signalClusters": {
			"a": {"status": "severe", "score": 85, "label": "Training Gap", "evidence": ["94% completion", "31% competence"], "interpretation": "Box ticking"},
			"b": {"status": "normal", "score": 20, "label": "Sponsorship", "evidence": ["Visible CFO"], "interpretation": "Fine"},
			"c": {"status": "elevated", "score": 60, "label": "Manager Void", "evidence": [], "interpretation": "Leads absent"}
		},
		"interventions": [
			{"priority": 1, "action": "One", "timing": "W1", "impact": "I1"},
			{"priority": 2, "action": "Two", "timing": "W2", "impact": "I2"},
			{"priority": 3, "action": "Three", "timing": "W3", "impact": "I3"},
			{"priority": 4, "action": "Four", "timing": "W4", "impact": "I4"},
			{"priority": 5, "action": "Five", "timing": "W5", "impact": "I5"},
			{"priority": 6, "action": "Six", "timing": "W6", "impact": "I6"}
		]
	}`)

	got := Render(a, testInitiative, nil, testNow)

	for _, want := range []string{
		"- **Adoption Cliff:** CRITICAL (87%) - Training not sticking\n- **Attrition Risk:** HIGH (72%) - Super-users overloaded\n",
		"### Training Gap [SEVERE]\n\nBox ticking\n\n**Evidence:**\n- 94% completion\n- 31% competence\n\n",
		"### Manager Void [ELEVATED]\n\nLeads absent\n\n**Evidence:**\n\n",
		"1. **One**\n   - Timing: W1\n   - Impact: I1\n\n",
		"5. **Five**\n",
		"**Confidence level:** HIGH\n",
		"**Gaps:** No night shift data\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	for _, unwanted := range []string{"Sponsorship", "6. **Six**"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("unexpected %q in brief", unwanted)
		}
	}
	if strings.Index(got, "Training Gap") > strings.Index(got, "Manager Void") {
		t.Error("expected clusters in analysis order")
	}
}

func TestFormatKey(t *testing.T) {
	for in, want := range map[string]string{
		"adoptionCliff": "Adoption Cliff",
		"technicalDebt": "Technical Debt",
		"risk":          "Risk",
		"":              "",
	} {
		if got := FormatKey(in); got != want {
			t.Errorf("FormatKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilename(t *testing.T) {
	got := Filename(signals.Initiative{Name: "CRM  Roll Out"}, testNow)
	if got != "change-brief-crm-roll-out-2025-06-16.md" {
		t.Errorf("unexpected filename %q", got)
	}
}
