package database

import (
	"encoding/json"
	"log"
	"sync"
)

// Memory is an in-process KV used by tests and by the CLI when no data
// directory is wanted. Values round-trip through JSON like the SQLite store.
type Memory struct {
	mu    sync.Mutex
	slots map[string][]byte
}

var _ KV = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

func (m *Memory) Get(key string, dest any) bool {
	m.mu.Lock()
	data, ok := m.slots[key]
	m.mu.Unlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("Storage error decoding %s: %v", key, err)
		return false
	}
	return true
}

func (m *Memory) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("Storage error encoding %s: %v", key, err)
		return
	}
	m.mu.Lock()
	m.slots[key] = data
	m.mu.Unlock()
}

func (m *Memory) Remove(key string) {
	m.mu.Lock()
	delete(m.slots, key)
	m.mu.Unlock()
}

// Raw returns the stored bytes for key, for assertions in tests.
func (m *Memory) Raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.slots[key]
	return data, ok
}

// Put stores raw bytes under key without encoding.
func (m *Memory) Put(key string, data []byte) {
	m.mu.Lock()
	m.slots[key] = data
	m.mu.Unlock()
}
