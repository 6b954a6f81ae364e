package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/lineofflight/changeos/internal/brief"
	"github.com/lineofflight/changeos/internal/database"
	"github.com/lineofflight/changeos/internal/signals"
	"github.com/lineofflight/changeos/internal/workspace"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// RunLog exposes analysis run history for the settings page.
// *database.DB satisfies it.
type RunLog interface {
	GetStats() (*database.Stats, error)
	GetRecentReports(limit int) ([]database.RunReport, error)
}

// Server is the local ChangeOS web UI.
type Server struct {
	ws     *workspace.Workspace
	runLog RunLog
	pages  map[string]*template.Template
	mux    *http.ServeMux
	now    func() time.Time
}

var pageNames = []string{
	"index.html",
	"tools.html",
	"readiness.html",
	"stakeholder.html",
	"impact.html",
	"resistance.html",
	"myth.html",
	"knowledge.html",
	"section.html",
	"changeos.html",
	"settings.html",
}

// New creates a new Server. runLog may be nil.
func New(ws *workspace.Workspace, runLog RunLog) (*Server, error) {
	funcMap := template.FuncMap{
		"markdown":        renderMarkdown,
		"formatKey":       brief.FormatKey,
		"formatTimestamp": database.FormatTimestamp,
		"upper":           strings.ToUpper,
		"capitalize":      capitalize,
		"typeLabel":       func(t signals.Type) string { return t.Label() },
		"add":             func(a, b int) int { return a + b },
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// Each page gets its own clone of base so its "title" and "content"
	// blocks do not collide with other pages.
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = clone
	}

	s := &Server{ws: ws, runLog: runLog, pages: pages, mux: http.NewServeMux(), now: time.Now}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/tools", s.handleTools)
	s.mux.HandleFunc("/tools/", s.handleTool)
	s.mux.HandleFunc("/knowledge", s.handleKnowledge)
	s.mux.HandleFunc("/knowledge/", s.handleSection)

	s.mux.HandleFunc("/changeos", s.handleChangeOS)
	s.mux.HandleFunc("/changeos/mode", s.handleMode)
	s.mux.HandleFunc("/changeos/signals/add", s.handleAddSignal)
	s.mux.HandleFunc("/changeos/signals/", s.handleSignalAction)
	s.mux.HandleFunc("/changeos/initiative", s.handleInitiative)
	s.mux.HandleFunc("/changeos/analyse", s.handleAnalyse)
	s.mux.HandleFunc("/changeos/brief.md", s.handleBriefDownload)

	s.mux.HandleFunc("/settings", s.handleSettings)
	s.mux.HandleFunc("/settings/key", s.handleSetKey)
	s.mux.HandleFunc("/settings/export", s.handleExport)
	s.mux.HandleFunc("/settings/import", s.handleImport)
	s.mux.HandleFunc("/settings/clear", s.handleClear)
}

// Nav is the navigation state for one request.
type Nav struct {
	Page    string
	Tool    string
	Section string
	Tab     string
	Mode    workspace.Mode
}

func (s *Server) nav(page string) Nav {
	return Nav{Page: page, Mode: s.ws.Mode()}
}

func (s *Server) render(w http.ResponseWriter, name string, data map[string]any) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Printf("Template %s not found", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// redirect sends the browser back to target after a form post, carrying
// an optional one-line message.
func redirect(w http.ResponseWriter, r *http.Request, target, key, msg string) {
	if msg != "" {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + key + "=" + url.QueryEscape(msg)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// Serve starts the HTTP server on the loopback interface.
func Serve(ws *workspace.Workspace, runLog RunLog, port int) error {
	srv, err := New(ws, runLog)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpSrv.ListenAndServe()
}
