package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	expiresAt time.Time
	value     []byte
}

// MemoryStore is a mutex-guarded in-process TTL cache. Staleness within
// the TTL is tolerated, so no locking beyond the map guard is needed.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	if s == nil || key == "" {
		return nil, false
	}
	s.mu.RLock()
	entry, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().UTC().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.items, key)
		s.mu.Unlock()
		return nil, false
	}
	value := append([]byte(nil), entry.value...)
	return value, true
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if s == nil || key == "" || ttl <= 0 {
		return
	}
	cloned := append([]byte(nil), value...)
	s.mu.Lock()
	s.items[key] = memoryEntry{
		expiresAt: time.Now().UTC().Add(ttl),
		value:     cloned,
	}
	s.mu.Unlock()
}

func (s *MemoryStore) Invalidate(_ context.Context, prefixes ...string) int {
	if s == nil || len(prefixes) == 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for key := range s.items {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				delete(s.items, key)
				deleted++
				break
			}
		}
	}
	return deleted
}
