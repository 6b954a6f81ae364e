// Package knowledge is the static change-management library: frameworks,
// methodologies, Te Ao Māori principles and templates.
package knowledge

// Section is one area of the library.
type Section struct {
	ID          string
	Name        string
	Description string
	Color       string
}

// Sections lists the library areas in display order.
var Sections = []Section{
	{ID: "frameworks", Name: "Framework Library", Description: "ADKAR, Kotter, Bridges, explained and critiqued", Color: "cyan"},
	{ID: "methodologies", Name: "Line Of Flight Methodologies", Description: "ACCEPTANCE framework and AI-augmented change", Color: "emerald"},
	{ID: "teaomaori", Name: "Te Ao Māori & Change", Description: "Cultural responsiveness in transformation", Color: "amber"},
	{ID: "templates", Name: "Templates & Resources", Description: "Change plans, stakeholder registers, comms", Color: "violet"},
}

// Lookup returns the section with the given id.
func Lookup(id string) (Section, bool) {
	for _, s := range Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Framework is a published change model with a critique.
type Framework struct {
	Name        string
	Creator     string
	Focus       string
	Stages      []string
	Strengths   string
	Limitations string
	BestFor     string
}

var Frameworks = []Framework{
	{
		Name: "ADKAR", Creator: "Prosci", Focus: "Individual change",
		Stages:      []string{"Awareness", "Desire", "Knowledge", "Ability", "Reinforcement"},
		Strengths:   "Simple, memorable, human-focused",
		Limitations: "Can oversimplify, assumes linear progression",
		BestFor:     "Training-heavy changes",
	},
	{
		Name: "Kotter's 8 Steps", Creator: "John Kotter", Focus: "Organisational transformation",
		Stages: []string{
			"Create urgency", "Build coalition", "Form vision", "Communicate",
			"Remove obstacles", "Short-term wins", "Build on change", "Anchor in culture",
		},
		Strengths:   "Comprehensive, addresses leadership",
		Limitations: "Assumes top-down, sequential rarely matches reality",
		BestFor:     "Large-scale transformations",
	},
	{
		Name: "Bridges' Transition Model", Creator: "William Bridges", Focus: "Psychological transition",
		Stages:      []string{"Ending", "Neutral Zone", "New Beginning"},
		Strengths:   "Acknowledges grief and loss",
		Limitations: "Less actionable",
		BestFor:     "Understanding emotional responses",
	},
	{
		Name: "Lewin's Change Model", Creator: "Kurt Lewin", Focus: "Force field analysis",
		Stages:      []string{"Unfreeze", "Change", "Refreeze"},
		Strengths:   "Foundational",
		Limitations: "Too simple for modern complexity",
		BestFor:     "Teaching basics",
	},
}

// FrameworksNote closes the framework library.
const FrameworksNote = "Frameworks are scaffolding, not reality. The best practitioners know when to follow them and when to read the room instead."

// Step is one letter of the ACCEPTANCE acronym.
type Step struct {
	Letter      string
	Word        string
	Description string
}

var Acceptance = []Step{
	{"A", "Assess", "Current AI usage and readiness"},
	{"C", "Clarify", "Ethical boundaries"},
	{"C", "Choose", "Appropriate tools"},
	{"E", "Experiment", "Low-risk applications"},
	{"P", "Practice", "Daily workflows"},
	{"T", "Track", "Outcomes and adjust"},
	{"A", "Advocate", "Responsible adoption"},
	{"N", "Navigate", "Ongoing changes"},
	{"C", "Cultivate", "Continuous learning"},
	{"E", "Embed", "AI-augmented practices"},
}

// Capability is one pillar of the augmented change craft.
type Capability struct {
	Name        string
	Description string
	Color       string
}

var AugmentedCraft = []Capability{
	{Name: "Sensing", Description: "Continuous monitoring at scale", Color: "cyan"},
	{Name: "Synthesis", Description: "Pattern recognition across data", Color: "emerald"},
	{Name: "Response", Description: "Human judgment remains central", Color: "amber"},
}

// Principle is a Te Ao Māori value applied to change.
type Principle struct {
	Name        string
	Translation string
	Text        string
}

var Principles = []Principle{
	{Name: "Whakawhānaungatanga", Translation: "Relationship building", Text: "Before diving into change mechanics, invest in relationship. This isn't preliminary; it's foundational."},
	{Name: "Manaakitanga", Translation: "Hospitality, support", Text: "How we treat people through change matters as much as the change itself."},
	{Name: "Kotahitanga", Translation: "Unity, collective action", Text: "Change succeeds when people move together, not when pushed through alone."},
	{Name: "Kaitiakitanga", Translation: "Guardianship", Text: "Change leaders as kaitiaki: guardians of people and process."},
}

// TiritiNote closes the Te Ao Māori section.
const TiritiNote = "In public sector contexts, change must consider Te Tiriti obligations: genuine partnership, participation, and protection."

// Template is a downloadable resource.
type Template struct {
	Name   string
	Format string
}

var Templates = []Template{
	{Name: "Change Impact Assessment Template", Format: "DOCX"},
	{Name: "Stakeholder Register", Format: "XLSX"},
	{Name: "Communications Plan", Format: "DOCX"},
	{Name: "Readiness Checklist", Format: "PDF"},
	{Name: "Change Request Form", Format: "DOCX"},
	{Name: "Lessons Learned Template", Format: "DOCX"},
}

// TemplatesNote is shown until the templates can be downloaded.
const TemplatesNote = "Templates coming soon. Use the interactive tools in the meantime."
