// Package cache provides a generic, thread-safe LRU cache used to
// memoize compiled range expressions. Rule tables are immutable, so a
// criterion string always compiles to the same matcher and can be
// reused across rows and tables.
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// Cache is a bounded LRU keyed by comparable K.
type Cache[K comparable, V any] struct {
	mu    sync.Mutex
	items map[K]*list.Element
	order *list.List // front = most recently used
	cap   int

	hits   atomic.Uint64
	misses atomic.Uint64
	evicts atomic.Uint64
}

type pair[K comparable, V any] struct {
	key   K
	value V
}

// New creates a cache holding at most capacity entries. A non-positive
// capacity falls back to 128.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	if capacity <= 0 {
		capacity = 128
	}
	return &Cache[K, V]{
		items: make(map[K]*list.Element, capacity),
		order: list.New(),
		cap:   capacity,
	}
}

// Get returns the cached value for key, marking it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	c.order.MoveToFront(el)
	return el.Value.(pair[K, V]).value, true
}

// Put stores a value, evicting the least recently used entry if full.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(key, value)
}

func (c *Cache[K, V]) put(key K, value V) {
	if el, ok := c.items[key]; ok {
		el.Value = pair[K, V]{key: key, value: value}
		c.order.MoveToFront(el)
		return
	}
	if len(c.items) >= c.cap {
		oldest := c.order.Back()
		if oldest != nil {
			delete(c.items, oldest.Value.(pair[K, V]).key)
			c.order.Remove(oldest)
			c.evicts.Add(1)
		}
	}
	c.items[key] = c.order.PushFront(pair[K, V]{key: key, value: value})
}

// GetOrCompute returns the cached value for key, computing and storing
// it on a miss. The compute function runs under the cache lock, which
// is acceptable here because expression compilation is cheap and pure.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.order.MoveToFront(el)
		return el.Value.(pair[K, V]).value
	}
	c.misses.Add(1)
	value := compute()
	c.put(key, value)
	return value
}

// Len returns the current number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Purge drops every entry but keeps the counters.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element, c.cap)
	c.order.Init()
}

// Stats holds cache counters.
type Stats struct {
	Size     int
	Capacity int
	Hits     uint64
	Misses   uint64
	Evicts   uint64
}

// HitRate returns hits / (hits + misses), or 0 with no lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats returns a snapshot of the counters.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	size := len(c.items)
	c.mu.Unlock()
	return Stats{
		Size:     size,
		Capacity: c.cap,
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Evicts:   c.evicts.Load(),
	}
}
