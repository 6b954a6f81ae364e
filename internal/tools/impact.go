package tools

import "strings"

// Group is a set of people affected by the change.
type Group struct {
	Name          string
	Size          int
	ProcessChange int
	SystemChange  int
	RoleChange    int
}

// DefaultGroups returns the starter assessment.
func DefaultGroups() []Group {
	return []Group{
		{Name: "Finance Team", Size: 35, ProcessChange: 4, SystemChange: 5, RoleChange: 3},
		{Name: "Department Managers", Size: 45, ProcessChange: 3, SystemChange: 3, RoleChange: 2},
	}
}

// NewGroup returns a group of ten with mid-scale ratings. It reports false
// for a blank name.
func NewGroup(name string) (Group, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, false
	}
	return Group{Name: name, Size: 10, ProcessChange: DefaultRating, SystemChange: DefaultRating, RoleChange: DefaultRating}, true
}

// GroupImpact is the assessed impact on one group.
type GroupImpact struct {
	Group
	Average float64
	Level   string
	Color   string
	// Share is the summed ratings as a percentage of the maximum 15.
	Share float64
}

// ImpactSummary totals the assessment.
type ImpactSummary struct {
	Groups        []GroupImpact
	TotalAffected int
}

// ImpactLevel rates the mean of the three change dimensions.
func ImpactLevel(g Group) (level, color string) {
	avg := float64(g.ProcessChange+g.SystemChange+g.RoleChange) / 3
	switch {
	case avg >= 4:
		return "High", "rose"
	case avg >= 2.5:
		return "Medium", "amber"
	default:
		return "Low", "emerald"
	}
}

// AssessImpact scores every group and totals the people affected.
func AssessImpact(groups []Group) ImpactSummary {
	var s ImpactSummary
	for _, g := range groups {
		g.ProcessChange = ClampRating(g.ProcessChange)
		g.SystemChange = ClampRating(g.SystemChange)
		g.RoleChange = ClampRating(g.RoleChange)
		g.Size = max(g.Size, 0)

		sum := g.ProcessChange + g.SystemChange + g.RoleChange
		level, color := ImpactLevel(g)
		s.Groups = append(s.Groups, GroupImpact{
			Group:   g,
			Average: float64(sum) / 3,
			Level:   level,
			Color:   color,
			Share:   float64(sum) / 15 * 100,
		})
		s.TotalAffected += g.Size
	}
	return s
}
