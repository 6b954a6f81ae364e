// Package workspace holds the live ChangeOS state: signals, the initiative,
// the last analysis, the API key and the demo/live display mode.
package workspace

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/lineofflight/changeos/internal/analysis"
	"github.com/lineofflight/changeos/internal/database"
	"github.com/lineofflight/changeos/internal/demo"
	"github.com/lineofflight/changeos/internal/llm"
	"github.com/lineofflight/changeos/internal/signals"
)

// ErrBusy is returned when an analysis is requested while another is
// still running.
var ErrBusy = errors.New("analysis already in progress")

const msgAnalysisFailed = "Analysis failed. Check your API key and try again."

// Mode selects between the bundled demo data and the user's own data.
type Mode string

const (
	ModeDemo Mode = "demo"
	ModeLive Mode = "live"
)

// ParseMode maps anything other than "live" to demo.
func ParseMode(s string) Mode {
	if Mode(s) == ModeLive {
		return ModeLive
	}
	return ModeDemo
}

// Analyser runs one analysis. *analysis.Client satisfies it.
type Analyser interface {
	Analyse(ctx context.Context, apiKey string, list []signals.Signal, initiative signals.Initiative) (*analysis.Analysis, error)
	Provider() string
}

// Reporter records run metadata. *database.DB satisfies it.
type Reporter interface {
	InsertReport(provider string, signalCount int, outcome, message string) (int64, error)
}

// Workspace is safe for concurrent use.
type Workspace struct {
	kv       database.KV
	store    *signals.Store
	analyser Analyser
	reporter Reporter
	envKey   string
	busy     *semaphore.Weighted
	running  atomic.Bool

	mu         sync.Mutex
	initiative signals.Initiative
	analysis   *analysis.Analysis
	mode       Mode
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithReporter records a run report after every analysis attempt.
func WithReporter(r Reporter) Option {
	return func(w *Workspace) { w.reporter = r }
}

// WithFallbackKey sets an API key used when none has been saved.
func WithFallbackKey(key string) Option {
	return func(w *Workspace) { w.envKey = key }
}

// New creates a workspace over kv. Call Load to restore saved state.
func New(kv database.KV, analyser Analyser, opts ...Option) *Workspace {
	w := &Workspace{
		kv:         kv,
		store:      signals.NewStore(kv),
		analyser:   analyser,
		busy:       semaphore.NewWeighted(1),
		initiative: signals.DefaultInitiative(),
		mode:       ModeDemo,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Load restores signals, initiative and analysis from storage. Missing or
// unreadable slots leave the defaults in place.
func (w *Workspace) Load() {
	w.store.Load()

	initiative := signals.LoadInitiative(w.kv)
	var a analysis.Analysis
	ok := w.kv.Get(database.KeyAnalysis, &a)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.initiative = initiative
	w.analysis = nil
	if ok {
		w.analysis = &a
	}
}

// AddSignal validates and stores a new signal.
func (w *Workspace) AddSignal(d signals.Draft) (signals.Signal, error) {
	return w.store.Add(d)
}

// DeleteSignal removes a signal by id, reporting whether it existed.
func (w *Workspace) DeleteSignal(id string) bool {
	return w.store.Delete(id)
}

// Signals returns the live signals in insertion order.
func (w *Workspace) Signals() []signals.Signal {
	return w.store.List()
}

// SortedSignals returns the live signals ordered by week.
func (w *Workspace) SortedSignals() []signals.Signal {
	return w.store.Sorted()
}

// Initiative returns the live initiative.
func (w *Workspace) Initiative() signals.Initiative {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.initiative
}

// SetInitiative stores the initiative, applying the timeline fallback.
func (w *Workspace) SetInitiative(i signals.Initiative) signals.Initiative {
	i = signals.SaveInitiative(w.kv, i)
	w.mu.Lock()
	w.initiative = i
	w.mu.Unlock()
	return i
}

// Analysis returns the last successful live analysis, or nil.
func (w *Workspace) Analysis() *analysis.Analysis {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.analysis
}

// APIKey returns the saved key, falling back to the configured one.
func (w *Workspace) APIKey() string {
	var key string
	if w.kv.Get(database.KeyAPIKey, &key) && key != "" {
		return key
	}
	return w.envKey
}

// HasSavedKey reports whether a key has been saved, as opposed to coming
// from the environment.
func (w *Workspace) HasSavedKey() bool {
	var key string
	return w.kv.Get(database.KeyAPIKey, &key) && key != ""
}

// SetAPIKey saves the key. An empty key removes it.
func (w *Workspace) SetAPIKey(key string) {
	if key == "" {
		w.kv.Remove(database.KeyAPIKey)
		return
	}
	w.kv.Set(database.KeyAPIKey, key)
}

// Mode returns the display mode.
func (w *Workspace) Mode() Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// SetMode switches the display mode. It is not persisted.
func (w *Workspace) SetMode(m Mode) {
	w.mu.Lock()
	w.mode = m
	w.mu.Unlock()
}

// View is what the dashboard shows for the current mode.
type View struct {
	Mode       Mode
	Initiative signals.Initiative
	Analysis   *analysis.Analysis
	Signals    []signals.Signal
	Inputs     []demo.Input
}

// View returns the demo fixtures in demo mode and the live state otherwise.
func (w *Workspace) View() View {
	if w.Mode() == ModeDemo {
		return View{
			Mode:       ModeDemo,
			Initiative: demo.Initiative(),
			Analysis:   demo.Analysis(),
			Inputs:     demo.Inputs(),
		}
	}
	return View{
		Mode:       ModeLive,
		Initiative: w.Initiative(),
		Analysis:   w.Analysis(),
		Signals:    w.store.List(),
	}
}

// RunAnalysis analyses the live signals. On success the result replaces the
// previous analysis in memory and in storage; on failure nothing changes.
// A second call while one is running fails with ErrBusy.
func (w *Workspace) RunAnalysis(ctx context.Context) (*analysis.Analysis, error) {
	if !w.busy.TryAcquire(1) {
		return nil, ErrBusy
	}
	w.running.Store(true)
	defer func() {
		w.running.Store(false)
		w.busy.Release(1)
	}()

	list := w.store.List()
	a, err := w.analyser.Analyse(ctx, w.APIKey(), list, w.Initiative())
	w.report(len(list), err)
	if err != nil {
		log.Printf("Analysis error: %v", err)
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.analysis = a
	w.kv.Set(database.KeyAnalysis, a)
	return a, nil
}

// Busy reports whether an analysis is running.
func (w *Workspace) Busy() bool {
	return w.running.Load()
}

func (w *Workspace) report(count int, err error) {
	if w.reporter == nil {
		return
	}
	outcome, message := Outcome(err), ""
	if err != nil {
		message = err.Error()
	}
	if _, rerr := w.reporter.InsertReport(w.analyser.Provider(), count, outcome, message); rerr != nil {
		log.Printf("Error recording run report: %v", rerr)
	}
}

// Outcome classifies an analysis error for run reports.
func Outcome(err error) string {
	var (
		ve  *signals.ValidationError
		api *llm.APIError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &api):
		return "api"
	case analysis.IsParseError(err):
		return "parse"
	default:
		return "error"
	}
}

// UserMessage turns any analysis-path error into the one line shown to
// the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrBusy) {
		return "Analysis already in progress."
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The analysis request timed out. Try again."
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgAnalysisFailed
}

// ClearData removes signals, initiative and analysis. The API key is kept.
func (w *Workspace) ClearData() {
	w.store.Clear()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.kv.Remove(database.KeyInitiative)
	w.kv.Remove(database.KeyAnalysis)
	w.initiative = signals.DefaultInitiative()
	w.analysis = nil
}

// Restore replaces the live state wholesale, as when importing a backup.
// A nil analysis removes the stored one.
func (w *Workspace) Restore(list []signals.Signal, i signals.Initiative, a *analysis.Analysis) {
	w.store.Replace(list)

	w.mu.Lock()
	defer w.mu.Unlock()
	i = signals.SaveInitiative(w.kv, i)
	if a != nil {
		w.kv.Set(database.KeyAnalysis, a)
	} else {
		w.kv.Remove(database.KeyAnalysis)
	}
	w.initiative = i
	w.analysis = a
}
