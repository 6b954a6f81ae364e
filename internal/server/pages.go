package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/lineofflight/changeos/internal/knowledge"
	"github.com/lineofflight/changeos/internal/tools"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, "index.html", map[string]any{
		"Nav":      s.nav("landing"),
		"Tools":    tools.Catalog,
		"Sections": knowledge.Sections,
	})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	s.render(w, "tools.html", map[string]any{
		"Nav":   s.nav("tools"),
		"Tools": tools.Catalog,
	})
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/tools/")
	tool, ok := tools.Lookup(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	nav := s.nav("tools")
	nav.Tool = tool.ID
	data := map[string]any{"Nav": nav, "Tool": tool}

	switch tool.ID {
	case "readiness":
		scores := tools.DefaultReadinessScores()
		for _, d := range tools.Dimensions {
			if v, err := strconv.Atoi(r.Form.Get(d.Key)); err == nil {
				scores[d.Key] = tools.ClampRating(v)
			}
		}
		data["Dimensions"] = tools.Dimensions
		data["Scores"] = scores
		data["Calculated"] = r.Form.Has("calculate")
		data["Result"] = tools.ScoreReadiness(scores)
	case "stakeholder":
		list := stakeholdersFromForm(r)
		data["Stakeholders"] = list
		data["Points"] = tools.Plot(list)
		data["Quadrants"] = []tools.Quadrant{tools.KeyPlayers, tools.Champions, tools.Observers, tools.Supporters}
	case "impact":
		groups := groupsFromForm(r)
		data["Summary"] = tools.AssessImpact(groups)
	case "resistance":
		selected := r.Form["b"]
		checked := make(map[string]bool, len(selected))
		for _, id := range selected {
			checked[id] = true
		}
		data["Behaviours"] = tools.Behaviours
		data["Checked"] = checked
		data["Decoded"] = r.Form.Has("decode")
		data["Decoding"] = tools.DecodeResistance(selected)
	case "myth":
		slide, _ := strconv.Atoi(r.Form.Get("slide"))
		deck := tools.Deck{}.Goto(slide)
		data["Deck"] = deck
		data["Slide"] = deck.Current()
		data["Slides"] = tools.MythSlides
		data["Reading"] = tools.MythReading
	}
	s.render(w, tool.ID+".html", data)
}

// stakeholdersFromForm rebuilds the map from repeated name/influence/support
// fields. With no fields at all the default map is shown. "add" appends a
// stakeholder and "remove" drops one by index.
func stakeholdersFromForm(r *http.Request) []tools.Stakeholder {
	names := r.Form["name"]
	if len(names) == 0 && !r.Form.Has("add") {
		return tools.DefaultStakeholders()
	}

	remove := formIndex(r, "remove")
	list := make([]tools.Stakeholder, 0, len(names)+1)
	for i, name := range names {
		if i == remove {
			continue
		}
		list = append(list, tools.Stakeholder{
			Name:      name,
			Influence: formRating(r, "influence", i),
			Support:   formRating(r, "support", i),
		})
	}
	if sh, ok := tools.NewStakeholder(r.Form.Get("add")); ok {
		list = append(list, sh)
	}
	return list
}

// groupsFromForm works like stakeholdersFromForm for impact groups.
func groupsFromForm(r *http.Request) []tools.Group {
	names := r.Form["name"]
	if len(names) == 0 && !r.Form.Has("add") {
		return tools.DefaultGroups()
	}

	remove := formIndex(r, "remove")
	groups := make([]tools.Group, 0, len(names)+1)
	for i, name := range names {
		if i == remove {
			continue
		}
		size := 0
		if sizes := r.Form["size"]; i < len(sizes) {
			size, _ = strconv.Atoi(sizes[i])
		}
		groups = append(groups, tools.Group{
			Name:          name,
			Size:          max(size, 0),
			ProcessChange: formRating(r, "process", i),
			SystemChange:  formRating(r, "system", i),
			RoleChange:    formRating(r, "role", i),
		})
	}
	if g, ok := tools.NewGroup(r.Form.Get("add")); ok {
		groups = append(groups, g)
	}
	return groups
}

func formRating(r *http.Request, key string, i int) int {
	values := r.Form[key]
	if i >= len(values) {
		return tools.DefaultRating
	}
	v, err := strconv.Atoi(values[i])
	if err != nil {
		return tools.DefaultRating
	}
	return tools.ClampRating(v)
}

func formIndex(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.Form.Get(key))
	if err != nil {
		return -1
	}
	return v
}

func (s *Server) handleKnowledge(w http.ResponseWriter, r *http.Request) {
	s.render(w, "knowledge.html", map[string]any{
		"Nav":      s.nav("knowledge"),
		"Sections": knowledge.Sections,
	})
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/knowledge/")
	section, ok := knowledge.Lookup(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	body, _ := knowledge.Markdown(section.ID)

	nav := s.nav("knowledge")
	nav.Section = section.ID
	s.render(w, "section.html", map[string]any{
		"Nav":      nav,
		"Section":  section,
		"Body":     body,
		"Sections": knowledge.Sections,
	})
}
