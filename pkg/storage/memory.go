package storage

import (
	"encoding/json"
	"sync"
)

// Memory is an in-memory Store. It backs tests and short-lived
// sessions that should not touch disk.
type Memory struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

func (m *Memory) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

func (m *Memory) GetJSON(key string, target any) bool {
	raw, ok := m.Get(key)
	if !ok || raw == "" || raw == "undefined" || raw == "null" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		// Drop the corrupted entry so the next read starts clean.
		m.Remove(key)
		return false
	}
	return true
}

func (m *Memory) SetJSON(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.Set(key, string(raw))
	return nil
}
