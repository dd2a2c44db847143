// internal/store/memory.go
//
// In-memory implementation of Store.
// Used in development/testing, or when durability is not required.
//
// Characteristics:
//   - Values are copied on the way in and out, so callers can't alias them.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu   sync.RWMutex                 // guards data
	data map[string]map[string][]byte // player -> key -> value
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{data: make(map[string]map[string][]byte)}
}

func (m *memory) Get(ctx context.Context, player, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.data[player][key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, ErrNotFound
}

func (m *memory) Set(ctx context.Context, player, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.data[player]
	if !ok {
		kv = make(map[string][]byte)
		m.data[player] = kv
	}
	kv[key] = append([]byte(nil), value...)
	return nil
}

func (m *memory) Keys(ctx context.Context, player string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.data[player]))
	for k := range m.data[player] {
		out = append(out, k)
	}
	return out, nil
}
