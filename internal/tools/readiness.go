package tools

import "math"

// Dimension is one readiness factor.
type Dimension struct {
	Key         string
	Label       string
	Description string
}

// Dimensions lists the eight readiness factors in display order.
var Dimensions = []Dimension{
	{Key: "leadership", Label: "Leadership Alignment", Description: "Are leaders visibly committed?"},
	{Key: "capacity", Label: "Change Capacity", Description: "Does the org have bandwidth?"},
	{Key: "culture", Label: "Cultural Readiness", Description: "Is culture receptive to change?"},
	{Key: "communication", Label: "Communication", Description: "Are there effective channels?"},
	{Key: "training", Label: "Training Capability", Description: "Can org build new skills?"},
	{Key: "systems", Label: "Systems & Processes", Description: "Are systems ready?"},
	{Key: "stakeholders", Label: "Stakeholder Support", Description: "Are stakeholders supportive?"},
	{Key: "history", Label: "Change History", Description: "Has org managed change before?"},
}

// DefaultReadinessScores rates every dimension 3.
func DefaultReadinessScores() map[string]int {
	scores := make(map[string]int, len(Dimensions))
	for _, d := range Dimensions {
		scores[d.Key] = DefaultRating
	}
	return scores
}

// Readiness is the scored result.
type Readiness struct {
	Total           int
	Percentage      int
	Level           string
	Color           string
	Message         string
	Profile         []DimensionScore
	Recommendations []Recommendation
}

// DimensionScore pairs a dimension with its rating.
type DimensionScore struct {
	Dimension
	Score int
}

// Recommendation flags a dimension rated 3 or lower.
type Recommendation struct {
	Label    string
	Severity string // "critical" or "attention"
	Title    string
	Advice   string
}

// ScoreReadiness rates the organisation from per-dimension scores. Missing
// dimensions take the default rating; out-of-range ratings are clamped.
func ScoreReadiness(scores map[string]int) Readiness {
	var r Readiness
	var critical, attention []Recommendation

	for _, d := range Dimensions {
		s, ok := scores[d.Key]
		if !ok {
			s = DefaultRating
		}
		s = ClampRating(s)
		r.Total += s
		r.Profile = append(r.Profile, DimensionScore{Dimension: d, Score: s})

		switch {
		case s <= 2:
			critical = append(critical, Recommendation{
				Label: d.Label, Severity: "critical",
				Title: d.Label + ": Critical Gap", Advice: "Address before proceeding",
			})
		case s == 3:
			attention = append(attention, Recommendation{
				Label: d.Label, Severity: "attention",
				Title: d.Label + ": Needs Attention", Advice: "Develop a plan to strengthen",
			})
		}
	}
	r.Recommendations = append(critical, attention...)

	maxTotal := MaxRating * len(Dimensions)
	r.Percentage = int(math.Round(float64(r.Total) / float64(maxTotal) * 100))

	switch {
	case r.Percentage >= 80:
		r.Level, r.Color, r.Message = "High", "emerald", "Strong foundation"
	case r.Percentage >= 60:
		r.Level, r.Color, r.Message = "Moderate", "amber", "Some areas need attention"
	case r.Percentage >= 40:
		r.Level, r.Color, r.Message = "Low", "orange", "Significant prep required"
	default:
		r.Level, r.Color, r.Message = "Critical", "rose", "Major gaps to address"
	}
	return r
}
