package knowledge

import (
	"fmt"
	"strings"
)

// Markdown renders a section as Markdown. It returns false for an unknown
// section id.
func Markdown(id string) (string, bool) {
	var b strings.Builder
	switch id {
	case "frameworks":
		b.WriteString("# Framework Library\n\nThe major change management frameworks: what they offer and where they fall short.\n\n")
		for _, fw := range Frameworks {
			fmt.Fprintf(&b, "## %s\n\n*%s · %s*\n\n", fw.Name, fw.Creator, fw.Focus)
			fmt.Fprintf(&b, "**Stages:** %s\n\n", strings.Join(fw.Stages, " → "))
			fmt.Fprintf(&b, "- **Strengths:** %s\n- **Limitations:** %s\n- **Best for:** %s\n\n", fw.Strengths, fw.Limitations, fw.BestFor)
		}
		fmt.Fprintf(&b, "> **The Line Of Flight View.** %s\n", FrameworksNote)

	case "methodologies":
		b.WriteString("# Line Of Flight Methodologies\n\nOriginal frameworks developed through research and practice.\n\n")
		b.WriteString("## The ACCEPTANCE Framework\n\nA methodology for introducing AI into change management practice.\n\n")
		for _, s := range Acceptance {
			fmt.Fprintf(&b, "- **%s** %s: %s\n", s.Letter, s.Word, s.Description)
		}
		b.WriteString("\n## Curating the Augmented Change Craft\n\nHow AI transforms change management: not by replacing judgment, but by amplifying capabilities.\n\n")
		for _, c := range AugmentedCraft {
			fmt.Fprintf(&b, "- **%s**: %s\n", c.Name, c.Description)
		}

	case "teaomaori":
		b.WriteString("# Te Ao Māori & Change\n\nChange in Aotearoa requires cultural responsiveness.\n\n")
		for _, p := range Principles {
			fmt.Fprintf(&b, "## %s\n\n*%s*\n\n%s\n\n", p.Name, p.Translation, p.Text)
		}
		fmt.Fprintf(&b, "> **Te Tiriti Considerations.** %s\n", TiritiNote)

	case "templates":
		b.WriteString("# Templates & Resources\n\nPractical templates for your change initiatives.\n\n")
		for _, t := range Templates {
			fmt.Fprintf(&b, "- %s (%s)\n", t.Name, t.Format)
		}
		fmt.Fprintf(&b, "\n%s\n", TemplatesNote)

	default:
		return "", false
	}
	return b.String(), true
}
