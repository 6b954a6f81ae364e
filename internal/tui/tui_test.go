package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lineofflight/changeos/internal/demo"
	"github.com/lineofflight/changeos/internal/signals"
	"github.com/lineofflight/changeos/internal/tools"
	"github.com/lineofflight/changeos/internal/workspace"
)

func TestRenderDashboardDemo(t *testing.T) {
	view := workspace.View{
		Mode:       workspace.ModeDemo,
		Initiative: demo.Initiative(),
		Analysis:   demo.Analysis(),
	}
	out := RenderDashboard(view, 120)
	for _, want := range []string{
		"Finance System Transformation",
		"Adoption Cliff",
		"Intervention Window",
		"Window closed",
		"Signal Clusters",
		"Recommended Interventions",
		"Recent Signals",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in dashboard", want)
		}
	}
}

func TestRenderDashboardEmpty(t *testing.T) {
	view := workspace.View{Mode: workspace.ModeLive, Initiative: signals.DefaultInitiative()}
	out := RenderDashboard(view, 0)
	if !strings.Contains(out, "No analysis yet") {
		t.Errorf("expected empty state, got %q", out)
	}
}

func TestRenderSignals(t *testing.T) {
	if !strings.Contains(RenderSignals(nil), "No signals yet.") {
		t.Error("expected empty message")
	}
	out := RenderSignals([]signals.Signal{{ID: "s1", Type: signals.Support, Week: 4, Title: "Ticket spike"}})
	for _, want := range []string{"s1", "Support Data", "Ticket spike"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestRenderTools(t *testing.T) {
	out := RenderReadiness(tools.ScoreReadiness(map[string]int{"leadership": 1}))
	if !strings.Contains(out, "Leadership Alignment: Critical Gap") {
		t.Errorf("expected critical recommendation in %q", out)
	}

	out = RenderStakeholders(tools.Plot(tools.DefaultStakeholders()))
	if !strings.Contains(out, "Executive Sponsor") || !strings.Contains(out, "Champions") {
		t.Errorf("unexpected stakeholder output %q", out)
	}

	out = RenderImpact(tools.AssessImpact(tools.DefaultGroups()))
	if !strings.Contains(out, "80") {
		t.Errorf("expected total of 80 in %q", out)
	}

	out = RenderResistance(tools.DecodeResistance(nil))
	if !strings.Contains(out, "Select at least one behaviour") {
		t.Errorf("expected empty prompt in %q", out)
	}
	out = RenderResistance(tools.DecodeResistance([]string{"history", "criticism"}))
	if !strings.Contains(out, "Primary driver: ") || !strings.Contains(out, "Trust") {
		t.Errorf("expected trust driver in %q", out)
	}
}

func TestMythModelNavigation(t *testing.T) {
	var m tea.Model = NewMythModel()
	if !strings.Contains(m.View(), "The 70% Myth") {
		t.Fatal("expected first slide")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if got := m.(MythModel).Deck().Index; got != 1 {
		t.Errorf("expected slide 1 after right, got %d", got)
	}
	if !strings.Contains(m.View(), "1993") {
		t.Error("expected second slide content")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.(MythModel).Deck().Index; got != 0 {
		t.Errorf("expected clamp at 0, got %d", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	if got := m.(MythModel).Deck().Index; got != len(tools.MythSlides)-1 {
		t.Errorf("expected last slide, got %d", got)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
