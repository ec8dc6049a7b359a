package schema

import (
	"container/list"
	"sync"
)

// LRUCache is a thread-safe LRU cache of compiled schemas keyed by fingerprint.
// Entries never go stale: a changed document has a different fingerprint.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	cache    map[string]*list.Element
	order    *list.List
}

type cacheEntry struct {
	fingerprint string
	compiled    *CompiledSchema
}

// NewLRUCache creates a new LRU cache with the given capacity.
func NewLRUCache(capacity int) *LRUCache {
	if capacity < 1 {
		capacity = 1
	}
	return &LRUCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get retrieves a compiled schema. Returns nil if not found.
func (c *LRUCache) Get(fingerprint string) *CompiledSchema {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.cache[fingerprint]
	if !exists {
		return nil
	}

	// Move to front (most recently used)
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).compiled
}

// Put adds a compiled schema, evicting the least recently used if full.
func (c *LRUCache) Put(compiled *CompiledSchema) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.cache[compiled.Fingerprint]; exists {
		c.order.MoveToFront(elem)
		elem.Value.(*cacheEntry).compiled = compiled
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			entry := oldest.Value.(*cacheEntry)
			delete(c.cache, entry.fingerprint)
			c.order.Remove(oldest)
		}
	}

	entry := &cacheEntry{fingerprint: compiled.Fingerprint, compiled: compiled}
	c.cache[compiled.Fingerprint] = c.order.PushFront(entry)
}

// Len returns the number of cached schemas.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

