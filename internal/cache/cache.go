// Package cache keeps assembled documents for a fixed time.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	document  string
	expiresAt time.Time
}

// Documents is a TTL cache of assembled pages keyed by core.CacheKey.
type Documents struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func New(ttl time.Duration) *Documents {
	return &Documents{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Documents) Get(key string) (string, bool) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return "", false
	}

	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// another writer may have refreshed the key meanwhile
		if cur, ok := c.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false
	}

	return e.document, true
}

func (c *Documents) Set(key, document string) {
	c.mu.Lock()
	c.entries[key] = entry{
		document:  document,
		expiresAt: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

func (c *Documents) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Documents) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}
