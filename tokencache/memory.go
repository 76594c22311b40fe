package tokencache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store with an in-process map.
// Entries are NOT shared across process restarts or multiple instances.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// memoryEntry is a single cached token.
type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{
		entries: make(map[string]memoryEntry),
	}

	// Start a background goroutine to clean up expired entries.
	go ms.cleanupLoop()

	return ms
}

// cleanupLoop periodically removes expired entries.
func (m *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		m.cleanup()
	}
}

// cleanup removes expired entries.
func (m *MemoryStore) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
}

// Get retrieves a cached token.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", ErrMiss
	}
	return entry.value, nil
}

// Set stores a token with a TTL.
func (m *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a cached token.
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
