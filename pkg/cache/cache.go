// Package cache is a small bounded TTL cache used by the API layer to avoid
// re-reading catalog and chart rows on every request.
package cache

import (
	"sync"
	"time"
)

const DefaultMaxEntries = 256

type entry[V any] struct {
	value  V
	expiry time.Time
}

// Cache is bounded by a maximum entry count. Expiry is lazy: entries are
// only dropped when a Get finds them stale or a full Set sweeps for room.
// When the sweep frees nothing, the oldest-inserted entry is evicted
// (insertion order, not LRU). Safe for concurrent use.
type Cache[V any] struct {
	mu      sync.Mutex
	max     int
	entries map[string]entry[V]
	order   []string // insertion order, oldest first
}

func New[V any](maxEntries int) *Cache[V] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache[V]{
		max:     maxEntries,
		entries: make(map[string]entry[V]),
	}
}

// Set inserts or overwrites a key. A TTL of zero (or less) produces an entry
// that is already expired. Overwriting resets the TTL but keeps the key's
// original insertion position and does not change the size count.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	exp := time.Now().Add(ttl)

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry[V]{value: value, expiry: exp}
		return
	}

	if len(c.entries) >= c.max {
		c.evictExpiredLocked()
	}
	if len(c.entries) >= c.max {
		c.evictOldestLocked()
	}

	c.entries[key] = entry[V]{value: value, expiry: exp}
	c.order = append(c.order, key)
}

// Get returns the value for key, or the zero value and false if the key is
// absent or its TTL has passed. Stale entries are removed on the spot.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if !time.Now().Before(e.expiry) {
		c.removeLocked(key)
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
	c.order = nil
}

func (c *Cache[V]) evictExpiredLocked() {
	now := time.Now()
	for key, e := range c.entries {
		if !now.Before(e.expiry) {
			c.removeLocked(key)
		}
	}
}

func (c *Cache[V]) evictOldestLocked() {
	if len(c.order) == 0 {
		return
	}
	c.removeLocked(c.order[0])
}

func (c *Cache[V]) removeLocked(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
