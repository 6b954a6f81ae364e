// Package tools implements the interactive change-management calculators:
// readiness, stakeholder mapping, impact assessment, resistance decoding
// and the 70% myth slideshow.
package tools

// Tool describes one calculator for the tools index.
type Tool struct {
	ID          string
	Name        string
	Description string
	Color       string
}

// Catalog lists the tools in display order.
var Catalog = []Tool{
	{ID: "readiness", Name: "Readiness Calculator", Description: "Assess organisational readiness across 8 dimensions", Color: "cyan"},
	{ID: "stakeholder", Name: "Stakeholder Mapper", Description: "Plot influence vs support for engagement strategies", Color: "emerald"},
	{ID: "impact", Name: "Impact Assessment", Description: "Analyse who is affected and what support they need", Color: "amber"},
	{ID: "resistance", Name: "Resistance Decoder", Description: "Diagnose what is driving resistance behaviour", Color: "rose"},
	{ID: "myth", Name: "70% Myth Debunker", Description: "The story behind the famous change statistic", Color: "orange"},
}

// Lookup returns the tool with the given id.
func Lookup(id string) (Tool, bool) {
	for _, t := range Catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// Rating bounds shared by every slider.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3
)

// ClampRating forces r into the 1-5 slider range.
func ClampRating(r int) int {
	return min(max(r, MinRating), MaxRating)
}
