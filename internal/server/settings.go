package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/lineofflight/changeos/internal/backup"
	"github.com/lineofflight/changeos/internal/database"
)

// maxImportBytes caps the size of an uploaded backup.
const maxImportBytes = 10 << 20

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Nav":     s.nav("settings"),
		"HasKey":  s.ws.HasSavedKey(),
		"EnvKey":  !s.ws.HasSavedKey() && s.ws.APIKey() != "",
		"Error":   r.URL.Query().Get("error"),
		"Notice":  r.URL.Query().Get("notice"),
		"Signals": len(s.ws.Signals()),
	}

	if s.runLog != nil {
		stats, err := s.runLog.GetStats()
		if err != nil {
			log.Printf("Error getting stats: %v", err)
		} else {
			data["Stats"] = stats
		}
		reports, err := s.runLog.GetRecentReports(10)
		if err != nil {
			log.Printf("Error getting run reports: %v", err)
		}
		data["Reports"] = reports
	}
	s.render(w, "settings.html", data)
}

func (s *Server) handleSetKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	key := strings.TrimSpace(r.FormValue("key"))
	s.ws.SetAPIKey(key)
	if key == "" {
		redirect(w, r, "/settings", "notice", "API key removed.")
		return
	}
	redirect(w, r, "/settings", "notice", "API key saved.")
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := backup.Export(backup.Bundle{
		Signals:    s.ws.Signals(),
		Initiative: s.ws.Initiative(),
		Analysis:   s.ws.Analysis(),
	})
	if err != nil {
		log.Printf("Error exporting backup: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backup.Filename(s.now())))
	w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		redirect(w, r, "/settings", "error", "Choose a backup file to import.")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		redirect(w, r, "/settings", "error", "Could not read the backup file.")
		return
	}
	b, err := backup.Import(raw)
	if err != nil {
		log.Printf("Import error: %v", err)
		redirect(w, r, "/settings", "error", "Import failed: "+err.Error())
		return
	}
	s.ws.Restore(b.Signals, b.Initiative, b.Analysis)
	redirect(w, r, "/settings", "notice", fmt.Sprintf("Imported %d signals.", len(b.Signals)))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.ws.ClearData()
	redirect(w, r, "/settings", "notice", "All signals and analysis cleared. Your API key was kept.")
}

var _ RunLog = (*database.DB)(nil)
