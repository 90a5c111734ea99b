package evaluation

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

const DefaultCacheSize = 128

// Cache memoizes Resolve by input fingerprint. Because the key covers the
// whole input, a hit can never be stale; it only skips recomputation when
// unrelated state changed. Results are shared and must be treated as read-only.
type Cache struct {
	mu      sync.Mutex
	size    int
	entries map[string]Result
	order   []string
	group   singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{size: size, entries: make(map[string]Result, size)}
}

// Resolve returns the cached result for in, computing it at most once even
// when several callers ask for the same input concurrently.
func (c *Cache) Resolve(in Input) (Result, bool, error) {
	if err := checkInput(in); err != nil {
		return Result{}, false, err
	}
	key, err := hashInput(in)
	if err != nil {
		return Result{}, false, err
	}
	if result, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return result, true, nil
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		if result, ok := c.lookup(key); ok {
			return result, nil
		}
		result := resolve(in, key)
		c.store(key, result)
		return result, nil
	})
	if err != nil {
		return Result{}, false, err
	}
	c.misses.Add(1)
	return value.(Result), false, nil
}

func (c *Cache) lookup(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[key]
	return result, ok
}

func (c *Cache) store(key string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return
	}
	if len(c.order) >= c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = result
	c.order = append(c.order, key)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
