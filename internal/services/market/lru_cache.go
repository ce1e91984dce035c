package market

import (
	"container/list"
	"sync"
)

// BoundedLRUCache is a thread-safe bounded LRU cache with generic key-value types
type BoundedLRUCache[K comparable, V any] struct {
	mu      sync.Mutex
	cache   map[K]*list.Element
	lru     *list.List
	maxSize int

	hits   uint64
	misses uint64
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewBoundedLRUCache returns nil for a non-positive size; a nil cache
// misses on every Get and ignores Set.
func NewBoundedLRUCache[K comparable, V any](maxSize int) *BoundedLRUCache[K, V] {
	if maxSize <= 0 {
		return nil
	}
	return &BoundedLRUCache[K, V]{
		cache:   make(map[K]*list.Element, maxSize),
		lru:     list.New(),
		maxSize: maxSize,
	}
}

// Get retrieves a value from the cache and moves it to front (most recently used)
func (c *BoundedLRUCache[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.cache[key]
	if !ok {
		c.misses++
		return zero, false
	}
	c.hits++
	c.lru.MoveToFront(elem)
	return elem.Value.(*lruEntry[K, V]).value, true
}

// Set adds or updates a value in the cache
func (c *BoundedLRUCache[K, V]) Set(key K, value V) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*lruEntry[K, V]).value = value
		return
	}

	for len(c.cache) >= c.maxSize {
		c.evictLRU()
	}

	elem := c.lru.PushFront(&lruEntry[K, V]{key: key, value: value})
	c.cache[key] = elem
}

// evictLRU removes the least recently used entry
// Must be called with mu held
func (c *BoundedLRUCache[K, V]) evictLRU() {
	back := c.lru.Back()
	if back == nil {
		return
	}
	entry := back.Value.(*lruEntry[K, V])
	c.lru.Remove(back)
	delete(c.cache, entry.key)
}

func (c *BoundedLRUCache[K, V]) Size() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Stats returns the hit and miss counters.
func (c *BoundedLRUCache[K, V]) Stats() (hits, misses uint64) {
	if c == nil {
		return 0, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clear removes all entries from the cache
func (c *BoundedLRUCache[K, V]) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[K]*list.Element, c.maxSize)
	c.lru.Init()
}
