/*
Package cache provides the process-wide TTL cache for sheet snapshots.

PURPOSE:
  Every read of a remote sheet costs a network RPC and counts against the
  spreadsheet service quota. Repositories cache whole-sheet snapshots under
  the key "{workbook}:{sheet}" and invalidate by workbook prefix after any
  write, so cross-sheet joins inside one workbook never mix fresh and stale
  data.

INVARIANTS:
  1. No stale read after TTL expiry: Get removes and misses expired entries.
  2. Last operation in lock order wins under concurrent Set/Invalidate.
  3. Entries are snapshots, not live proxies. After an invalidation the
     caller must Get again to observe new data.

PATTERN INVALIDATION:
  InvalidatePattern(sub) removes every key containing sub. Writers pass
  "{workbook}:" so all sheets of the workbook flush together.

SEE ALSO:
  - repo/: the only caller that writes to this cache
*/
package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL applies when Set is called with a non-positive ttl.
const DefaultTTL = 300 * time.Second

type entry struct {
	value  any
	expiry time.Time
}

// Cache is a thread-safe string-keyed TTL map.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time // overridable for tests
}

func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// NewWithClock creates a cache with an injected clock. Tests use this to
// simulate TTL expiry without sleeping.
func NewWithClock(now func() time.Time) *Cache {
	c := New()
	c.now = now
	return c
}

// Get returns the cached value if present and unexpired. Expired entries
// are removed on access; there is no background sweeper.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiry) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl. Non-positive ttl means DefaultTTL.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiry: c.now().Add(ttl)}
}

// Invalidate removes a single key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidatePattern removes every key containing sub.
func (c *Cache) InvalidatePattern(sub string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if strings.Contains(k, sub) {
			delete(c.entries, k)
		}
	}
}

// Clear removes everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len reports the number of live entries, counting unexpired only.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if c.now().Before(e.expiry) {
			n++
		}
	}
	return n
}
