package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/lineofflight/changeos/internal/analysis"
	"github.com/lineofflight/changeos/internal/brief"
	"github.com/lineofflight/changeos/internal/demo"
	"github.com/lineofflight/changeos/internal/signals"
	"github.com/lineofflight/changeos/internal/workspace"
)

// Tab is one section of the ChangeOS view.
type Tab struct {
	ID    string
	Label string
}

func tabsFor(mode workspace.Mode) []Tab {
	inputs := "Inputs"
	if mode == workspace.ModeLive {
		inputs = "Add Signals"
	}
	tabs := []Tab{{"dashboard", "Dashboard"}, {"signals", "Signals"}, {"inputs", inputs}}
	if mode == workspace.ModeLive {
		tabs = append(tabs, Tab{"brief", "Weekly Brief"})
	}
	return tabs
}

// resolveTab falls back to the dashboard for unknown tabs and for tabs the
// mode does not offer.
func resolveTab(id string, mode workspace.Mode) string {
	for _, t := range tabsFor(mode) {
		if t.ID == id {
			return id
		}
	}
	return "dashboard"
}

// riskCard is a risk with the display colour for its lens.
type riskCard struct {
	analysis.Named[analysis.Risk]
	Title string
	Color string
}

type dashboard struct {
	Risks         []riskCard
	Window        *analysis.InterventionWindow
	Clusters      []analysis.Named[analysis.Cluster]
	Expanded      string
	Chart         *chart
	Interventions []analysis.Intervention
	Recent        []analysis.RecentSignal
}

func newDashboard(a *analysis.Analysis, expanded string) *dashboard {
	if a == nil {
		return nil
	}
	d := &dashboard{
		Window:        a.InterventionWindow,
		Clusters:      a.ClusterList(),
		Expanded:      expanded,
		Chart:         newChart(a.Trajectory),
		Interventions: a.Interventions[:min(len(a.Interventions), 4)],
		Recent:        a.RecentSignals[:min(len(a.RecentSignals), 6)],
	}
	for _, r := range a.RiskList() {
		color := "amber"
		if r.Key == "adoptionCliff" {
			color = "rose"
		}
		d.Risks = append(d.Risks, riskCard{Named: r, Title: brief.FormatKey(r.Key), Color: color})
	}
	return d
}

func (s *Server) handleChangeOS(w http.ResponseWriter, r *http.Request) {
	view := s.ws.View()

	nav := s.nav("changeos")
	nav.Mode = view.Mode
	nav.Tab = resolveTab(r.URL.Query().Get("tab"), view.Mode)

	data := map[string]any{
		"Nav":       nav,
		"Tabs":      tabsFor(view.Mode),
		"View":      view,
		"Live":      view.Mode == workspace.ModeLive,
		"Dashboard": newDashboard(view.Analysis, r.URL.Query().Get("cluster")),
		"Error":     r.URL.Query().Get("error"),
		"Notice":    r.URL.Query().Get("notice"),
		"Types":     signals.Types,
		"HasKey":    s.ws.APIKey() != "",
		"Busy":      s.ws.Busy(),
		"DemoWeeks": demo.Weeks(),
	}
	if view.Mode == workspace.ModeLive {
		data["Signals"] = s.ws.SortedSignals()
		if nav.Tab == "brief" && view.Analysis != nil {
			data["Brief"] = brief.Render(view.Analysis, view.Initiative, view.Signals, s.now())
			data["BriefFile"] = brief.Filename(view.Initiative, s.now())
		}
	}
	s.render(w, "changeos.html", data)
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	mode := workspace.ParseMode(r.FormValue("mode"))
	s.ws.SetMode(mode)
	redirect(w, r, "/changeos?tab="+resolveTab(r.FormValue("tab"), mode), "", "")
}

func (s *Server) handleAddSignal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	typ, err := signals.ParseType(r.FormValue("type"))
	if err != nil {
		redirect(w, r, "/changeos?tab=inputs", "error", err.Error())
		return
	}
	week, _ := strconv.Atoi(r.FormValue("week"))
	d := signals.Draft{
		Type:    typ,
		Week:    week,
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}
	sig, err := s.ws.AddSignal(d)
	if err != nil {
		redirect(w, r, "/changeos?tab=inputs", "error", err.Error())
		return
	}
	redirect(w, r, "/changeos?tab=inputs", "notice", fmt.Sprintf("Added %q.", sig.Title))
}

// handleSignalAction serves POST /changeos/signals/{id}/delete.
func (s *Server) handleSignalAction(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/changeos/signals/")
	id, action, ok := strings.Cut(rest, "/")
	if !ok || action != "delete" || id == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.ws.DeleteSignal(id) {
		log.Printf("Delete of unknown signal %s ignored", id)
	}
	redirect(w, r, "/changeos?tab=inputs", "", "")
}

func (s *Server) handleInitiative(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	timeline, _ := strconv.Atoi(r.FormValue("timeline"))
	s.ws.SetInitiative(signals.Initiative{
		Name:         r.FormValue("name"),
		Organisation: r.FormValue("organisation"),
		Timeline:     timeline,
	})
	redirect(w, r, "/changeos?tab=inputs", "notice", "Initiative saved.")
}

func (s *Server) handleAnalyse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// The run outlives the browser request; provider timeouts still bound it.
	ctx := context.WithoutCancel(r.Context())
	if _, err := s.ws.RunAnalysis(ctx); err != nil {
		redirect(w, r, "/changeos?tab=dashboard", "error", workspace.UserMessage(err))
		return
	}
	redirect(w, r, "/changeos?tab=dashboard", "", "")
}

func (s *Server) handleBriefDownload(w http.ResponseWriter, r *http.Request) {
	a := s.ws.Analysis()
	if a == nil {
		http.Error(w, "Run analysis first to generate a brief.", http.StatusNotFound)
		return
	}
	initiative := s.ws.Initiative()
	now := s.now()
	body := brief.Render(a, initiative, s.ws.Signals(), now)

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", brief.Filename(initiative, now)))
	fmt.Fprint(w, body)
}
