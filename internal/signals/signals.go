// Package signals holds the user-entered change signals and the initiative
// they describe.
package signals

import (
	"fmt"
	"strings"
)

// Type classifies where a signal came from.
type Type string

const (
	MeetingNotes Type = "meeting_notes"
	Survey       Type = "survey"
	Observation  Type = "observation"
	RiskRegister Type = "risk_register"
	Support      Type = "support"
	Comms        Type = "comms"
)

// Types lists the signal types in display order.
var Types = []Type{MeetingNotes, Survey, Observation, RiskRegister, Support, Comms}

var typeLabels = map[Type]string{
	MeetingNotes: "Meeting Notes",
	Survey:       "Survey Data",
	Observation:  "Observation",
	RiskRegister: "Risk Register",
	Support:      "Support Data",
	Comms:        "Comms/Feedback",
}

// Label returns the human-readable name for the type.
func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

// ParseType accepts either the identifier or the label, case-insensitively.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	for _, t := range Types {
		if strings.EqualFold(s, string(t)) || strings.EqualFold(s, t.Label()) {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "type", Message: fmt.Sprintf("unknown signal type %q", s)}
}

// Signal is one piece of observed evidence about the change.
type Signal struct {
	ID      string `json:"id"`
	Type    Type   `json:"type"`
	Week    int    `json:"week"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// Draft is a signal before it has been accepted into the store.
type Draft struct {
	Type    Type
	Week    int
	Title   string
	Content string
}

// Validate trims the draft in place and checks the required fields.
func (d *Draft) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	switch {
	case d.Title == "":
		return &ValidationError{Field: "title", Message: "Signal title is required."}
	case d.Content == "":
		return &ValidationError{Field: "content", Message: "Signal content is required."}
	case !d.Type.Valid():
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown signal type %q", d.Type)}
	case d.Week < 1:
		return &ValidationError{Field: "week", Message: "Week must be 1 or later."}
	}
	return nil
}

// DefaultTimeline is the initiative length in weeks when none is given.
const DefaultTimeline = 12

// Initiative is the change programme the signals describe.
type Initiative struct {
	Name         string `json:"name"`
	Organisation string `json:"organisation"`
	Timeline     int    `json:"timeline"`
}

// DefaultInitiative returns the placeholder initiative shown before the
// user fills in their own.
func DefaultInitiative() Initiative {
	return Initiative{
		Name:         "My Initiative",
		Organisation: "My Organisation",
		Timeline:     DefaultTimeline,
	}
}

// Normalize applies the timeline fallback.
func (i Initiative) Normalize() Initiative {
	if i.Timeline <= 0 {
		i.Timeline = DefaultTimeline
	}
	return i
}

// ValidationError reports input rejected before any work was done.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
