package database

import (
	"database/sql"
	"encoding/json"
	"log"
)

// KV is the persistence port. Implementations are best-effort: read and
// decode failures surface as an absent value, write failures are logged and
// dropped.
type KV interface {
	Get(key string, dest any) bool
	Set(key string, value any)
	Remove(key string)
}

var _ KV = (*DB)(nil)

// Get decodes the slot into dest. It reports false when the slot is absent
// or cannot be decoded.
func (db *DB) Get(key string, dest any) bool {
	var raw string
	err := db.conn.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		log.Printf("Storage error reading %s: %v", key, err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Printf("Storage error decoding %s: %v", key, err)
		return false
	}
	return true
}

// Set encodes value as JSON and stores it under key.
func (db *DB) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("Storage error encoding %s: %v", key, err)
		return
	}
	_, err = db.conn.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data),
	)
	if err != nil {
		log.Printf("Storage error writing %s: %v", key, err)
	}
}

// Remove deletes the slot. Missing slots are not an error.
func (db *DB) Remove(key string) {
	if _, err := db.conn.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		log.Printf("Storage error removing %s: %v", key, err)
	}
}
