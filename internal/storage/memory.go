package storage

import (
	"slices"
	"sync"
)

// Memory is an in-process Slot, used by tests and the "memory" store driver.
// FailWrites makes every Set fail, simulating a full or disabled store.
type Memory struct {
	mu         sync.Mutex
	data       map[string][]byte
	FailWrites error
}

// NewMemory returns an empty in-memory slot store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrEmpty
	}
	return slices.Clone(v), nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.data[key] = slices.Clone(value)
	return nil
}
