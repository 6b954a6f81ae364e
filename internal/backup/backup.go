// Package backup reads and writes the JSON bundle used to move ChangeOS
// data between machines.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lineofflight/changeos/internal/analysis"
	"github.com/lineofflight/changeos/internal/signals"
)

// ErrEmptyBundle means an import contained none of the expected fields.
var ErrEmptyBundle = errors.New("backup contains no signals, initiative or analysis")

// Bundle is the backup file layout.
type Bundle struct {
	Signals    []signals.Signal   `json:"signals"`
	Initiative signals.Initiative `json:"initiative"`
	Analysis   *analysis.Analysis `json:"analysis"`
}

// Export encodes the bundle as indented JSON.
func Export(b Bundle) ([]byte, error) {
	if b.Signals == nil {
		b.Signals = []signals.Signal{}
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return data, nil
}

// Import decodes a bundle. A missing initiative falls back to the default
// one.
func Import(data []byte) (Bundle, error) {
	var raw struct {
		Signals    []signals.Signal    `json:"signals"`
		Initiative *signals.Initiative `json:"initiative"`
		Analysis   *analysis.Analysis  `json:"analysis"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Bundle{}, fmt.Errorf("decoding backup: %w", err)
	}
	if raw.Signals == nil && raw.Initiative == nil && raw.Analysis == nil {
		return Bundle{}, ErrEmptyBundle
	}

	b := Bundle{Signals: raw.Signals, Analysis: raw.Analysis, Initiative: signals.DefaultInitiative()}
	if raw.Initiative != nil {
		b.Initiative = raw.Initiative.Normalize()
	}
	for i, s := range b.Signals {
		if s.ID == "" {
			return Bundle{}, fmt.Errorf("signal %d has no id", i)
		}
	}
	return b, nil
}

// Filename returns the download name for a backup taken at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("changeos-backup-%s.json", now.Format("2006-01-02"))
}
