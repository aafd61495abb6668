package storage

import (
	"context"
	"sync"
)

// Memory is a non-durable KV, used for dry runs and tests.
type Memory struct {
	mu     sync.Mutex
	values map[string][]byte
	puts   int
}

func NewMemory() *Memory {
	return &Memory{values: map[string][]byte{}}
}

// NewMemoryFrom seeds the store with initial values.
func NewMemoryFrom(seed map[string][]byte) *Memory {
	m := NewMemory()
	for k, v := range seed {
		m.values[k] = append([]byte(nil), v...)
	}
	return m
}

// Get implements Reader
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put implements Writer
func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	m.puts++
	return nil
}

// Puts returns how many writes the store has accepted.
func (m *Memory) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}
