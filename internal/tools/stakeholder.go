package tools

import "strings"

// Stakeholder is one person or group on the influence/support map.
type Stakeholder struct {
	Name      string
	Influence int
	Support   int
}

// Quadrant is a stakeholder's position and the matching engagement
// strategy.
type Quadrant struct {
	Name     string
	Strategy string
	Color    string
}

// Quadrants in map order: top-left, top-right, bottom-left, bottom-right.
var (
	KeyPlayers = Quadrant{Name: "Key Players", Strategy: "Focus attention here", Color: "amber"}
	Champions  = Quadrant{Name: "Champions", Strategy: "Engage and empower", Color: "emerald"}
	Observers  = Quadrant{Name: "Observers", Strategy: "Monitor", Color: "slate"}
	Supporters = Quadrant{Name: "Supporters", Strategy: "Keep informed", Color: "cyan"}
)

// DefaultStakeholders returns the starter map.
func DefaultStakeholders() []Stakeholder {
	return []Stakeholder{
		{Name: "Executive Sponsor", Influence: 5, Support: 4},
		{Name: "IT Director", Influence: 4, Support: 3},
		{Name: "Finance Team Lead", Influence: 3, Support: 2},
		{Name: "End Users", Influence: 2, Support: 3},
	}
}

// NewStakeholder returns a stakeholder with mid-scale ratings. It reports
// false for a blank name.
func NewStakeholder(name string) (Stakeholder, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Stakeholder{}, false
	}
	return Stakeholder{Name: name, Influence: DefaultRating, Support: DefaultRating}, true
}

// Classify places influence and support, each 1-5, in a quadrant.
func Classify(influence, support int) Quadrant {
	high := func(v int) bool { return v >= 3 }
	switch {
	case high(influence) && high(support):
		return Champions
	case high(influence):
		return KeyPlayers
	case high(support):
		return Supporters
	default:
		return Observers
	}
}

// PlotPoint is a stakeholder's position on the map as percentages from the
// top-left corner.
type PlotPoint struct {
	Stakeholder
	Quadrant Quadrant
	X, Y     float64
}

// Plot positions each stakeholder: support runs left to right, influence
// bottom to top.
func Plot(list []Stakeholder) []PlotPoint {
	points := make([]PlotPoint, 0, len(list))
	for _, s := range list {
		s.Influence = ClampRating(s.Influence)
		s.Support = ClampRating(s.Support)
		points = append(points, PlotPoint{
			Stakeholder: s,
			Quadrant:    Classify(s.Influence, s.Support),
			X:           float64(s.Support-1) / 4 * 100,
			Y:           100 - float64(s.Influence-1)/4*100,
		})
	}
	return points
}
