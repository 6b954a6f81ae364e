package signals

import "github.com/lineofflight/changeos/internal/database"

// LoadInitiative returns the persisted initiative, or the default one.
func LoadInitiative(kv database.KV) Initiative {
	var i Initiative
	if !kv.Get(database.KeyInitiative, &i) {
		return DefaultInitiative()
	}
	return i.Normalize()
}

// SaveInitiative persists the initiative after applying the timeline
// fallback, and returns what was stored.
func SaveInitiative(kv database.KV, i Initiative) Initiative {
	i = i.Normalize()
	kv.Set(database.KeyInitiative, i)
	return i
}
