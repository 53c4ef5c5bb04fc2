// Package memory implements the in-process response cache.
package memory

import (
	"sync"
	"time"

	"github.com/tavbridge-ai/tavbridge/pkg/models"
)

// entry holds one cached response payload.
type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a bounded key-value store with per-entry TTL.
//
// Expired entries are removed lazily on Get; there is no background
// sweeper. When the cache is full, Put evicts the single oldest-inserted
// entry (insertion order, not access order) before storing the new one.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	order      []string // keys in insertion order
	maxEntries int
	hits       int64
	misses     int64

	// now is swapped out in tests.
	now func() time.Time
}

// DefaultMaxEntries bounds the cache when no explicit limit is configured.
const DefaultMaxEntries = 128

// New creates a Cache holding at most maxEntries entries.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the cached value for key, or false if the key is absent or
// expired. An expired entry is deleted as a side effect.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.remove(key)
		c.misses++
		return nil, false
	}
	c.hits++
	return e.value, true
}

// Put stores value under key for the given TTL. A TTL of zero or less
// disables storage entirely, so the call is a no-op.
func (c *Cache) Put(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.maxEntries {
			c.remove(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.order = nil
}

// Stats returns cache performance metrics.
func (c *Cache) Stats() models.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CacheStats{
		Entries:    int64(len(c.entries)),
		MaxEntries: int64(c.maxEntries),
		Hits:       c.hits,
		Misses:     c.misses,
	}
}

// remove deletes key from both the map and the insertion-order list.
// Callers must hold c.mu.
func (c *Cache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
