package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lineofflight/changeos/internal/analysis"
	"github.com/lineofflight/changeos/internal/brief"
	"github.com/lineofflight/changeos/internal/signals"
	"github.com/lineofflight/changeos/internal/workspace"
)

const defaultWidth = 100

// RenderDashboard draws the risk dashboard for a view. A width of zero
// uses the default terminal width.
func RenderDashboard(v workspace.View, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(v.Initiative.Name))
	sb.WriteString("  ")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("%s · %d weeks · %s mode", v.Initiative.Organisation, v.Initiative.Timeline, v.Mode)))
	sb.WriteString("\n\n")

	a := v.Analysis
	if a == nil {
		sb.WriteString(mutedStyle.Render("No analysis yet. Add signals, then run `changeos analyse`."))
		sb.WriteString("\n")
		return sb.String()
	}

	if a.Confidence != "" {
		sb.WriteString(fmt.Sprintf("Confidence %s", badge(a.Confidence, a.Confidence)))
		if a.LastRun != "" {
			sb.WriteString(mutedStyle.Render("  last run " + a.LastRun))
		}
		sb.WriteString("\n\n")
	}

	if cards := riskCards(a, width); cards != "" {
		sb.WriteString(cards)
		sb.WriteString("\n")
	}
	if w := a.InterventionWindow; w != nil {
		sb.WriteString(renderWindow(w, v.Initiative.Timeline, width))
		sb.WriteString("\n")
	}
	if clusters := a.ClusterList(); len(clusters) > 0 {
		sb.WriteString(renderClusters(clusters, width))
		sb.WriteString("\n")
	}
	if len(a.Interventions) > 0 {
		sb.WriteString(renderInterventions(a.Interventions[:min(len(a.Interventions), 4)], width))
		sb.WriteString("\n")
	}
	if len(a.RecentSignals) > 0 {
		sb.WriteString(renderRecent(a.RecentSignals[:min(len(a.RecentSignals), 6)], width))
		sb.WriteString("\n")
	}
	if a.DataGaps != "" {
		sb.WriteString(mutedStyle.Render("Data gaps: " + a.DataGaps))
		sb.WriteString("\n")
	}
	return sb.String()
}

func riskCards(a *analysis.Analysis, width int) string {
	risks := a.RiskList()
	if len(risks) == 0 {
		return ""
	}
	cardWidth := max(width/len(risks)-2, 20)

	cards := make([]string, 0, len(risks))
	for _, r := range risks {
		color := "amber"
		if r.Key == "adoptionCliff" {
			color = "rose"
		}
		body := strings.Join([]string{
			titleStyle.Render(brief.FormatKey(r.Key)),
			colored(color, fmt.Sprintf("%d%%", r.Value.Score)) + " " + badge(r.Value.Level, r.Value.Level) + " " + colored(r.Value.Trend, r.Value.Trend),
			mutedStyle.Render(r.Value.Summary),
		}, "\n")
		cards = append(cards, sectionStyle.BorderForeground(colorFor(color)).Width(cardWidth).Render(body))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderWindow(w *analysis.InterventionWindow, timeline, width int) string {
	status := fmt.Sprintf("%d weeks remaining", w.WeeksRemaining)
	color := "amber"
	if w.Status == "CLOSED" {
		status, color = "Window closed", "slate"
	}
	body := strings.Join([]string{
		titleStyle.Render("Intervention Window") + "  " + mutedStyle.Render(w.Message),
		bar(100, max(width-6, 10), color),
		fmt.Sprintf("Week 1 · %s · Week %d", colored(color, status), timeline),
	}, "\n")
	return sectionStyle.Width(width - 2).Render(body)
}

func renderClusters(clusters []analysis.Named[analysis.Cluster], width int) string {
	lines := []string{headerStyle.Render("Signal Clusters")}
	for _, c := range clusters {
		lines = append(lines, fmt.Sprintf("%-24s %s %3d  %s",
			brief.FormatKey(c.Key),
			bar(float64(c.Value.Score), 20, c.Value.Status),
			c.Value.Score,
			mutedStyle.Render(c.Value.Label)))
	}
	return sectionStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderInterventions(items []analysis.Intervention, width int) string {
	lines := []string{headerStyle.Render("Recommended Interventions")}
	for _, it := range items {
		status := "cyan"
		if it.Status == "missed" {
			status = "rose"
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s", it.Priority, it.Action, badge(status, it.Status)))
		if it.Timing != "" {
			lines = append(lines, mutedStyle.Render("   "+it.Timing))
		}
	}
	return sectionStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderRecent(items []analysis.RecentSignal, width int) string {
	lines := []string{headerStyle.Render("Recent Signals")}
	for _, s := range items {
		lines = append(lines, fmt.Sprintf("%s W%d %s %s",
			colored(s.Severity, "●"), s.Week, s.Signal, mutedStyle.Render("("+s.Source+")")))
	}
	return sectionStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// RenderSignals lists signals one per line, already in display order.
func RenderSignals(list []signals.Signal) string {
	if len(list) == 0 {
		return mutedStyle.Render("No signals yet.") + "\n"
	}
	var sb strings.Builder
	for _, s := range list {
		fmt.Fprintf(&sb, "%s  W%-2d %-16s %s\n",
			mutedStyle.Render(s.ID),
			s.Week,
			s.Type.Label(),
			titleStyle.Render(s.Title))
	}
	return sb.String()
}
