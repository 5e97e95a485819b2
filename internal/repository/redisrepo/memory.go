package redisrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

func newMemoryCache(now func() time.Time) *memoryCache {
	return &memoryCache{
		now:     now,
		entries: make(map[string]memoryEntry),
	}
}

// live returns the entry under key unless it has expired. Callers hold mu.
func (c *memoryCache) live(key string) (memoryEntry, bool) {
	entry, ok := c.entries[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !entry.expiresAt.After(c.now()) {
		delete(c.entries, key)
		return memoryEntry{}, false
	}
	return entry, true
}

func (c *memoryCache) Fill(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.live(key); ok {
		return nil
	}
	c.entries[key] = memoryEntry{data: data, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *memoryCache) Fetch(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.live(key)
	if !ok || bytes.Equal(entry.data, tombstone) {
		return nil, ErrMiss
	}
	return append([]byte(nil), entry.data...), nil
}

func (c *memoryCache) Invalidate(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(INVALIDATION_TTL)
	for _, key := range keys {
		c.entries[key] = memoryEntry{data: tombstone, expiresAt: expiresAt}
	}
	return nil
}
