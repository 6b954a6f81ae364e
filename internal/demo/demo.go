// Package demo holds the bundled example initiative shown in demo mode.
package demo

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/lineofflight/changeos/internal/analysis"
	"github.com/lineofflight/changeos/internal/signals"
)

//go:embed analysis.json
var analysisJSON []byte

//go:embed inputs.json
var inputsJSON []byte

// Input is one raw data source behind the demo analysis.
type Input struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Week    int    `json:"week"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Date    string `json:"date"`
}

// TypeLabel returns the display name for the input's type. Demo inputs
// include training metrics, which live signals do not.
func (i Input) TypeLabel() string {
	if i.Type == "training" {
		return "Training Metrics"
	}
	return signals.Type(i.Type).Label()
}

var demoInputs []Input

func init() {
	if _, err := analysis.Decode(string(analysisJSON)); err != nil {
		panic(fmt.Sprintf("demo: bad analysis fixture: %v", err))
	}
	if err := json.Unmarshal(inputsJSON, &demoInputs); err != nil {
		panic(fmt.Sprintf("demo: bad inputs fixture: %v", err))
	}
}

// Initiative returns the demo initiative.
func Initiative() signals.Initiative {
	return signals.Initiative{
		Name:         "Finance System Transformation",
		Organisation: "Meridian Health",
		Timeline:     12,
	}
}

// Analysis returns a fresh copy of the demo analysis, so callers may not
// alter the fixture.
func Analysis() *analysis.Analysis {
	a, _ := analysis.Decode(string(analysisJSON))
	return a
}

// Inputs returns the demo inputs.
func Inputs() []Input {
	out := make([]Input, len(demoInputs))
	copy(out, demoInputs)
	return out
}

// Weeks returns the number of weeks covered by the demo inputs.
func Weeks() int {
	weeks := 0
	for _, in := range demoInputs {
		weeks = max(weeks, in.Week)
	}
	return weeks
}
