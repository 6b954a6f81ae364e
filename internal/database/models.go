package database

// Slot keys. The names match the storage keys used by the hosted app so
// exported backups stay recognisable.
const (
	KeyAPIKey     = "changeos_api_key"
	KeySignals    = "changeos_signals"
	KeyInitiative = "changeos_initiative"
	KeyAnalysis   = "changeos_analysis"
)

// RunReport holds metadata about one analysis run. The analysis itself is
// never stored here.
type RunReport struct {
	ID          int64
	RanAt       string
	Provider    string
	SignalCount int
	Outcome     string // "ok", "validation", "api", "parse" or "error"
	Message     *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	Slots       int
	Runs        int
	FailedRuns  int
	LastRunAt   string
	LastOutcome string
}
