package cache

import (
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryCache is the in-process L1. Expired entries are dropped lazily
// on read and swept whenever the map grows past sweepThreshold.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

const sweepThreshold = 4096

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
	}
}

func (m *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= sweepThreshold {
		now := time.Now()
		for k, e := range m.entries {
			if now.After(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}

	m.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

func (m *MemoryCache) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	entry, found := m.entries[key]
	m.mu.RUnlock()

	if !found {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (m *MemoryCache) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// DeletePattern supports the same trailing-glob patterns the redis
// layer uses for list invalidation ("todos_list:*").
func (m *MemoryCache) DeletePattern(pattern string) {
	prefix, ok := strings.CutSuffix(pattern, "*")
	if !ok {
		m.Delete(pattern)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
}

func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryCache) Stats() map[string]interface{} {
	return map[string]interface{}{
		"entries": m.Len(),
	}
}
