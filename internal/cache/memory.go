package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   []byte
	expires time.Time
}

// MemoryStore is a bounded in-process Store. When full, the oldest entry
// is evicted.
type MemoryStore struct {
	mu      sync.Mutex
	size    int
	ttl     time.Duration
	entries map[string]memoryEntry
	order   []string
	now     func() time.Time
}

// NewMemory returns a MemoryStore holding at most size entries. A zero ttl
// means entries never expire.
func NewMemory(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 1
	}
	return &MemoryStore{
		size:    size,
		ttl:     ttl,
		entries: make(map[string]memoryEntry, size),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		m.dropOrder(key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expires time.Time
	if m.ttl > 0 {
		expires = m.now().Add(m.ttl)
	}
	if _, exists := m.entries[key]; !exists {
		m.evict()
		m.order = append(m.order, key)
	}
	m.entries[key] = memoryEntry{value: value, expires: expires}
	return nil
}

// evict makes room for one new key by dropping the oldest ones.
func (m *MemoryStore) evict() {
	for len(m.entries) >= m.size && len(m.order) > 0 {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}
}

func (m *MemoryStore) dropOrder(key string) {
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// Len reports the number of live entries.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
