package tools

import (
	"math"
	"slices"
)

// Behaviour is an observable resistance behaviour.
type Behaviour struct {
	ID       string
	Label    string
	Category string
}

// Behaviours lists the observable behaviours in display order.
var Behaviours = []Behaviour{
	{ID: "questions", Label: "Asking lots of questions", Category: "fear"},
	{ID: "history", Label: "Referencing past failures", Category: "trust"},
	{ID: "workload", Label: "Citing workload concerns", Category: "capacity"},
	{ID: "expertise", Label: "Questioning their relevance", Category: "loss"},
	{ID: "silence", Label: "Going quiet in meetings", Category: "fear"},
	{ID: "workarounds", Label: "Creating workarounds", Category: "capacity"},
	{ID: "delegation", Label: "Delegating change tasks", Category: "loss"},
	{ID: "criticism", Label: "Criticising publicly", Category: "trust"},
	{ID: "compliance", Label: "Malicious compliance", Category: "trust"},
	{ID: "delays", Label: "Requesting delays", Category: "fear"},
	{ID: "alternatives", Label: "Proposing alternatives", Category: "trust"},
	{ID: "absenteeism", Label: "Missing meetings", Category: "capacity"},
}

// Category is a root cause of resistance.
type Category struct {
	Key         string
	Name        string
	Color       string
	Description string
	Strategies  []string
}

// Categories in declaration order, which also breaks ties when ranking.
var Categories = []Category{
	{
		Key: "fear", Name: "Fear of the Unknown", Color: "amber",
		Description: "Uncertainty about what the change means",
		Strategies: []string{
			"Provide clear, specific information",
			"Create safe spaces for questions",
			"Share stories from similar changes",
			"Be honest about unknowns",
		},
	},
	{
		Key: "loss", Name: "Perceived Loss", Color: "rose",
		Description: "Feeling they are losing status or expertise",
		Strategies: []string{
			"Acknowledge their expertise",
			"Leverage their knowledge",
			"Clarify what is preserved",
			"Create roles that honour contribution",
		},
	},
	{
		Key: "capacity", Name: "Capacity Constraints", Color: "cyan",
		Description: "Genuinely overwhelmed",
		Strategies: []string{
			"Review actual workload",
			"Identify what can pause",
			"Provide additional support",
			"Adjust timelines if needed",
		},
	},
	{
		Key: "trust", Name: "Trust Deficit", Color: "violet",
		Description: "Past experience taught skepticism",
		Strategies: []string{
			"Acknowledge past failures",
			"Explain what is different",
			"Involve in decisions",
			"Follow through on commitments",
		},
	},
}

// Driver is a category with the number of selected behaviours behind it.
type Driver struct {
	Category
	Count int
	// Width is the bar width percentage, never below 5 so empty drivers
	// stay visible.
	Width float64
}

// Decoding is the result of decoding a set of behaviours.
type Decoding struct {
	Selected int
	Drivers  []Driver
	// Primary is nil when no known behaviour was selected.
	Primary *Driver
}

// DecodeResistance tallies the selected behaviours by category. Unknown ids are
// ignored and duplicates count once.
func DecodeResistance(selected []string) Decoding {
	counts := make(map[string]int, len(Categories))
	seen := make(map[string]bool, len(selected))
	for _, id := range selected {
		if seen[id] {
			continue
		}
		seen[id] = true
		if i := slices.IndexFunc(Behaviours, func(b Behaviour) bool { return b.ID == id }); i >= 0 {
			counts[Behaviours[i].Category]++
		}
	}

	d := Decoding{Selected: len(seen)}
	for _, c := range Categories {
		width := 5.0
		if d.Selected > 0 {
			width = math.Max(float64(counts[c.Key])/float64(d.Selected)*100, 5)
		}
		d.Drivers = append(d.Drivers, Driver{Category: c, Count: counts[c.Key], Width: width})
	}
	slices.SortStableFunc(d.Drivers, func(a, b Driver) int { return b.Count - a.Count })

	if d.Drivers[0].Count > 0 {
		primary := d.Drivers[0]
		d.Primary = &primary
	}
	return d
}
