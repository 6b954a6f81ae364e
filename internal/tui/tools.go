package tui

import (
	"fmt"
	"strings"

	"github.com/lineofflight/changeos/internal/tools"
)

// RenderReadiness prints a readiness result with its profile and
// recommendations.
func RenderReadiness(r tools.Readiness) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", colored(r.Color, fmt.Sprintf("%d%%", r.Percentage)), titleStyle.Render(r.Level+" Readiness"))
	sb.WriteString(mutedStyle.Render(r.Message))
	sb.WriteString("\n\n")

	for _, d := range r.Profile {
		fmt.Fprintf(&sb, "%-24s %s %d/5\n", d.Label, bar(float64(d.Score)*20, 20, "cyan"), d.Score)
	}
	if len(r.Recommendations) > 0 {
		sb.WriteString("\n")
		sb.WriteString(headerStyle.Render("Recommendations"))
		sb.WriteString("\n")
		for _, rec := range r.Recommendations {
			color := "amber"
			if rec.Severity == "critical" {
				color = "rose"
			}
			fmt.Fprintf(&sb, "%s %s\n", colored(color, rec.Title), mutedStyle.Render("· "+rec.Advice))
		}
	}
	return sb.String()
}

// RenderStakeholders prints each stakeholder's quadrant and strategy.
func RenderStakeholders(points []tools.PlotPoint) string {
	var sb strings.Builder
	for _, p := range points {
		fmt.Fprintf(&sb, "%-22s influence %d support %d  %s  %s\n",
			p.Name, p.Influence, p.Support,
			colored(p.Quadrant.Color, fmt.Sprintf("%-12s", p.Quadrant.Name)),
			mutedStyle.Render(p.Quadrant.Strategy))
	}
	return sb.String()
}

// RenderImpact prints the per-group impact and the total affected.
func RenderImpact(s tools.ImpactSummary) string {
	var sb strings.Builder
	for _, g := range s.Groups {
		fmt.Fprintf(&sb, "%-22s %4d people  %s %s\n",
			g.Name, g.Size, bar(g.Share, 20, g.Color), badge(g.Color, g.Level))
	}
	fmt.Fprintf(&sb, "\n%s people affected across %d groups\n", titleStyle.Render(fmt.Sprint(s.TotalAffected)), len(s.Groups))
	return sb.String()
}

// RenderResistance prints the ranked drivers and the primary driver's
// strategies.
func RenderResistance(d tools.Decoding) string {
	var sb strings.Builder
	if d.Primary == nil {
		sb.WriteString(mutedStyle.Render("Select at least one behaviour to decode."))
		sb.WriteString("\n")
	} else {
		fmt.Fprintf(&sb, "Primary driver: %s\n", colored(d.Primary.Color, d.Primary.Name))
		sb.WriteString(mutedStyle.Render(d.Primary.Description))
		sb.WriteString("\n")
		for _, s := range d.Primary.Strategies {
			fmt.Fprintf(&sb, "  • %s\n", s)
		}
	}
	sb.WriteString("\n")
	for _, dr := range d.Drivers {
		fmt.Fprintf(&sb, "%-22s %s %d\n", dr.Name, bar(dr.Width, 20, dr.Color), dr.Count)
	}
	return sb.String()
}
