package signals

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lineofflight/changeos/internal/database"
)

// Store is the ordered signal collection, persisted as a whole on every
// change.
type Store struct {
	mu      sync.Mutex
	kv      database.KV
	signals []Signal
	now     func() time.Time
}

// NewStore returns a store backed by kv. Call Load to restore saved signals.
func NewStore(kv database.KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Load replaces the in-memory collection with the persisted one. A missing
// or unreadable slot yields an empty collection.
func (s *Store) Load() {
	var saved []Signal
	if !s.kv.Get(database.KeySignals, &saved) {
		saved = nil
	}
	s.mu.Lock()
	s.signals = saved
	s.mu.Unlock()
}

// Add validates the draft, assigns an id and timestamp, appends it and
// persists the collection.
func (s *Store) Add(d Draft) (Signal, error) {
	if err := d.Validate(); err != nil {
		return Signal{}, err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return Signal{}, fmt.Errorf("generating signal id: %w", err)
	}

	sig := Signal{
		ID:      id.String(),
		Type:    d.Type,
		Week:    d.Week,
		Title:   d.Title,
		Content: d.Content,
		Date:    s.now().UTC().Format(time.RFC3339),
	}

	s.mu.Lock()
	s.signals = append(s.signals, sig)
	s.persistLocked()
	s.mu.Unlock()
	return sig, nil
}

// Delete removes the signal with the given id. It reports whether a signal
// was removed; the collection is persisted either way.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.signals)
	s.signals = slices.DeleteFunc(s.signals, func(sig Signal) bool { return sig.ID == id })
	s.persistLocked()
	return len(s.signals) != n
}

// List returns the signals in insertion order.
func (s *Store) List() []Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.signals)
}

// Sorted returns the signals ordered by week, keeping insertion order
// within a week.
func (s *Store) Sorted() []Signal {
	out := s.List()
	SortByWeek(out)
	return out
}

// Len returns the number of signals.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.signals)
}

// Replace swaps in a whole collection, as when restoring a backup.
func (s *Store) Replace(list []Signal) {
	s.mu.Lock()
	s.signals = slices.Clone(list)
	s.persistLocked()
	s.mu.Unlock()
}

// Clear drops every signal and removes the persisted slot.
func (s *Store) Clear() {
	s.mu.Lock()
	s.signals = nil
	s.mu.Unlock()
	s.kv.Remove(database.KeySignals)
}

func (s *Store) persistLocked() {
	list := s.signals
	if list == nil {
		list = []Signal{}
	}
	s.kv.Set(database.KeySignals, list)
}

// SortByWeek orders signals by week ascending, stable.
func SortByWeek(list []Signal) {
	slices.SortStableFunc(list, func(a, b Signal) int { return a.Week - b.Week })
}
