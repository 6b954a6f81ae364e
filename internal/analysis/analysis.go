// Package analysis turns signals into a structured change-risk assessment
// by prompting an LLM and decoding the JSON object it returns.
package analysis

import (
	"fmt"
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Analysis is one snapshot of model output. Every field is optional; the
// dashboard and brief render whatever is present.
type Analysis struct {
	LastRun            string                                  `json:"lastRun,omitempty"`
	Confidence         string                                  `json:"confidence,omitempty"`
	DataGaps           string                                  `json:"dataGaps,omitempty"`
	Risks              *orderedmap.OrderedMap[string, Risk]    `json:"risks,omitempty"`
	InterventionWindow *InterventionWindow                     `json:"interventionWindow,omitempty"`
	SignalClusters     *orderedmap.OrderedMap[string, Cluster] `json:"signalClusters,omitempty"`
	Interventions      []Intervention                          `json:"interventions,omitempty"`
	RecentSignals      []RecentSignal                          `json:"recentSignals,omitempty"`
	SayDoGap           []SayDo                                 `json:"sayDoGap,omitempty"`
	KeyQuotes          []Quote                                 `json:"keyQuotes,omitempty"`
	Trajectory         []TrajectoryPoint                       `json:"trajectory,omitempty"`
}

// Risk is the assessment for one lens.
type Risk struct {
	Level   string `json:"level"`
	Score   int    `json:"score"`
	Trend   string `json:"trend"`
	Summary string `json:"summary"`
}

// InterventionWindow estimates how long there is left to act.
type InterventionWindow struct {
	WeeksRemaining int    `json:"weeksRemaining"`
	Status         string `json:"status"`
	Message        string `json:"message"`
	OriginalWindow int    `json:"originalWindow"`
}

// Cluster groups related evidence under one label.
type Cluster struct {
	Status         string   `json:"status"`
	Score          int      `json:"score"`
	Label          string   `json:"label"`
	Evidence       []string `json:"evidence"`
	Interpretation string   `json:"interpretation"`
}

type Intervention struct {
	Priority int    `json:"priority"`
	Action   string `json:"action"`
	Timing   string `json:"timing"`
	Cost     string `json:"cost"`
	Impact   string `json:"impact"`
	Status   string `json:"status"`
}

type RecentSignal struct {
	Week     int    `json:"week"`
	Severity string `json:"severity"`
	Signal   string `json:"signal"`
	Source   string `json:"source"`
}

// SayDo contrasts an official statement with what the evidence shows.
type SayDo struct {
	Said    string `json:"said"`
	Reality string `json:"reality"`
	Week    int    `json:"week"`
	Source  string `json:"source"`
}

type Quote struct {
	Quote   string `json:"quote"`
	Speaker string `json:"speaker"`
	Week    int    `json:"week"`
	Context string `json:"context"`
}

// TrajectoryPoint is one week of risk scores for the trend chart.
type TrajectoryPoint struct {
	Week          int `json:"week"`
	AdoptionRisk  int `json:"adoptionRisk"`
	AttritionRisk int `json:"attritionRisk"`
	TechnicalDebt int `json:"technicalDebt"`
}

// Named pairs a map key with its value, in map order.
type Named[T any] struct {
	Key   string
	Value T
}

// RiskList returns the risks in the order the model listed them.
func (a *Analysis) RiskList() []Named[Risk] {
	if a == nil {
		return nil
	}
	return pairs(a.Risks)
}

// ClusterList returns the signal clusters in the order the model listed them.
func (a *Analysis) ClusterList() []Named[Cluster] {
	if a == nil {
		return nil
	}
	return pairs(a.SignalClusters)
}

// CriticalClusters returns the clusters whose status is severe or elevated.
func (a *Analysis) CriticalClusters() []Named[Cluster] {
	return slices.DeleteFunc(a.ClusterList(), func(c Named[Cluster]) bool {
		return c.Value.Status != "severe" && c.Value.Status != "elevated"
	})
}

func pairs[T any](m *orderedmap.OrderedMap[string, T]) []Named[T] {
	if m == nil {
		return nil
	}
	out := make([]Named[T], 0, m.Len())
	for p := m.Oldest(); p != nil; p = p.Next() {
		out = append(out, Named[T]{Key: p.Key, Value: p.Value})
	}
	return out
}

var (
	confidenceLevels = []string{"HIGH", "MEDIUM", "LOW"}
	riskLevels       = []string{"CRITICAL", "HIGH", "MEDIUM", "LOW"}
	trends           = []string{"declining", "stable", "improving"}
	windowStatuses   = []string{"OPEN", "CLOSING", "CLOSED"}
	clusterStatuses  = []string{"severe", "elevated", "normal"}
	signalSeverities = []string{"critical", "warning", "info"}
)

// Issues lists values outside the documented ranges. They do not make the
// analysis unusable; callers log them.
func (a *Analysis) Issues() []string {
	if a == nil {
		return nil
	}
	var issues []string
	check := func(field, value string, allowed []string) {
		if value != "" && !slices.Contains(allowed, value) {
			issues = append(issues, fmt.Sprintf("%s: unexpected value %q", field, value))
		}
	}
	score := func(field string, v int) {
		if v < 0 || v > 100 {
			issues = append(issues, fmt.Sprintf("%s: score %d outside 0-100", field, v))
		}
	}

	check("confidence", a.Confidence, confidenceLevels)
	for _, r := range a.RiskList() {
		check("risks."+r.Key+".level", r.Value.Level, riskLevels)
		check("risks."+r.Key+".trend", r.Value.Trend, trends)
		score("risks."+r.Key, r.Value.Score)
	}
	if w := a.InterventionWindow; w != nil {
		check("interventionWindow.status", w.Status, windowStatuses)
		if w.WeeksRemaining < 0 {
			issues = append(issues, fmt.Sprintf("interventionWindow: negative weeksRemaining %d", w.WeeksRemaining))
		}
	}
	for _, c := range a.ClusterList() {
		check("signalClusters."+c.Key+".status", c.Value.Status, clusterStatuses)
		score("signalClusters."+c.Key, c.Value.Score)
	}
	for i, s := range a.RecentSignals {
		check(fmt.Sprintf("recentSignals[%d].severity", i), s.Severity, signalSeverities)
	}
	return issues
}
