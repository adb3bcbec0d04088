package fieldstore

import (
	"context"
	"sync"
	"time"
)

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

// MemoryStore holds the fields in a map protected by a mutex. The shared
// expiry is a single timestamp; there is no janitor, expiry is checked on
// read.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]string
	expiry  time.Time
	ttl     time.Duration

	now func() time.Time // test hook
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]string),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Save(ctx context.Context, key string, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	m.expiry = m.now().Add(m.ttl)
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.expiry.IsZero() && m.now().After(m.expiry) {
		// Clear expired data as one unit
		m.entries = make(map[string]string)
		m.expiry = time.Time{}
		return "", false
	}

	value, ok := m.entries[key]
	return value, ok
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]string)
	m.expiry = time.Time{}
	return nil
}
