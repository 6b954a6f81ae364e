// Package brief renders the weekly change brief as Markdown.
package brief

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/lineofflight/changeos/internal/analysis"
	"github.com/lineofflight/changeos/internal/signals"
)

const maxInterventions = 5

// Render builds the brief from an analysis. A nil analysis, or one with
// empty sections, still produces every section header.
func Render(a *analysis.Analysis, initiative signals.Initiative, list []signals.Signal, now time.Time) string {
	if a == nil {
		a = &analysis.Analysis{}
	}
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly Change Brief\n## %s\n### %s\n", initiative.Name, initiative.Organisation)
	fmt.Fprintf(&b, "**Date:** %s\n", now.Format("Monday, 2 January 2006"))
	fmt.Fprintf(&b, "**Signals analysed:** %d\n\n---\n\n## Executive Summary\n\n", len(list))

	for _, r := range a.RiskList() {
		fmt.Fprintf(&b, "- **%s:** %s (%d%%) - %s\n", FormatKey(r.Key), r.Value.Level, r.Value.Score, r.Value.Summary)
	}

	b.WriteString("\n---\n\n## Critical Findings\n\n")
	for _, c := range a.CriticalClusters() {
		fmt.Fprintf(&b, "### %s [%s]\n\n", c.Value.Label, strings.ToUpper(c.Value.Status))
		fmt.Fprintf(&b, "%s\n\n", c.Value.Interpretation)
		b.WriteString("**Evidence:**\n")
		for _, e := range c.Value.Evidence {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n## Recommended Interventions\n\n")
	for i, in := range a.Interventions[:min(len(a.Interventions), maxInterventions)] {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, in.Action)
		fmt.Fprintf(&b, "   - Timing: %s\n", in.Timing)
		fmt.Fprintf(&b, "   - Impact: %s\n\n", in.Impact)
	}

	b.WriteString("---\n\n## Data Quality\n\n")
	fmt.Fprintf(&b, "**Confidence level:** %s\n", orDefault(a.Confidence, "Medium"))
	fmt.Fprintf(&b, "**Signals this week:** %d\n", len(list))
	fmt.Fprintf(&b, "**Gaps:** %s\n", orDefault(a.DataGaps, "None identified"))
	b.WriteString("\n---\n\n*Generated by ChangeOS · Line Of Flight*\n")

	return b.String()
}

// FormatKey turns a camelCase key into title words: "adoptionCliff"
// becomes "Adoption Cliff".
func FormatKey(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename returns the download name for a brief.
func Filename(initiative signals.Initiative, now time.Time) string {
	slug := strings.ToLower(whitespace.ReplaceAllString(initiative.Name, "-"))
	return fmt.Sprintf("change-brief-%s-%s.md", slug, now.Format("2006-01-02"))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
