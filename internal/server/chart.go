package server

import (
	"fmt"
	"strings"

	"github.com/lineofflight/changeos/internal/analysis"
)

// Chart geometry in SVG user units. Scores run 0-100 bottom to top.
const (
	chartWidth  = 600
	chartHeight = 200
)

// series is one polyline on the trajectory chart.
type series struct {
	Name   string
	Color  string
	Points string
}

type chart struct {
	Width, Height int
	Series        []series
	Weeks         []weekTick
}

type weekTick struct {
	X     float64
	Label string
}

// newChart lays out the trajectory as three polylines. It returns nil when
// there are no points to draw.
func newChart(points []analysis.TrajectoryPoint) *chart {
	if len(points) == 0 {
		return nil
	}
	x := func(i int) float64 {
		if len(points) == 1 {
			return chartWidth / 2
		}
		return float64(i) / float64(len(points)-1) * chartWidth
	}
	y := func(score int) float64 {
		score = min(max(score, 0), 100)
		return chartHeight - float64(score)/100*chartHeight
	}
	line := func(score func(analysis.TrajectoryPoint) int) string {
		coords := make([]string, len(points))
		for i, p := range points {
			coords[i] = fmt.Sprintf("%.1f,%.1f", x(i), y(score(p)))
		}
		return strings.Join(coords, " ")
	}

	c := &chart{
		Width:  chartWidth,
		Height: chartHeight,
		Series: []series{
			{Name: "Adoption Risk", Color: "#f43f5e", Points: line(func(p analysis.TrajectoryPoint) int { return p.AdoptionRisk })},
			{Name: "Attrition Risk", Color: "#f59e0b", Points: line(func(p analysis.TrajectoryPoint) int { return p.AttritionRisk })},
			{Name: "Technical Debt", Color: "#06b6d4", Points: line(func(p analysis.TrajectoryPoint) int { return p.TechnicalDebt })},
		},
	}
	for i, p := range points {
		c.Weeks = append(c.Weeks, weekTick{X: x(i), Label: fmt.Sprintf("W%d", p.Week)})
	}
	return c
}
