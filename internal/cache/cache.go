package cache

import (
	"strings"
	"sync"
	"time"
)

// Cache is a process-wide, key-addressed store for aggregation results and raw
// entity lists. It is created once at startup and passed by reference to the
// components that need it; tests construct a fresh one each.
//
// Entries are removed by explicit invalidation after confirmed writes, by TTL
// expiry, or by an operator-triggered full flush. A miss is never an error:
// callers recompute from source data and repopulate.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time

	hits   uint64
	misses uint64
}

type entry struct {
	value     interface{}
	expiresAt time.Time // zero means no expiry
}

// Option configures a Cache
type Option func(*Cache)

// WithClock overrides the time source, for expiry tests
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache whose entries expire after defaultTTL unless a per-entry
// TTL is given. A non-positive defaultTTL disables time-based expiry.
func New(defaultTTL time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key, or (nil, false) on a miss.
// Expired entries count as misses and are dropped.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have replaced it
		if cur, still := c.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		ok = false
	}

	c.mu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key. A non-positive ttl stores without expiry.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Invalidate removes a single key
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidatePrefix removes every key sharing the prefix. Used when a write's
// blast radius is a whole collection of derived aggregates.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

// Clear removes every entry. Exposed to operators as an explicit recovery
// action for suspected staleness.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the number of live entries, including not-yet-collected expired ones
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats reports cumulative hit and miss counts since construction
func (c *Cache) Stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
