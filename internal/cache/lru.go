package cache

import (
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/usersearch/resource"
)

// LRU is a least-recently-used cache bounded by total cost.
// It is safe for concurrent use.
type LRU[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[K]*list.Element
	evictList *list.List
	rc        *resource.Controller
	onEvict   func(K, V)

	hits   atomic.Int64
	misses atomic.Int64
}

type entry[K comparable, V any] struct {
	key   K
	value V
	cost  int64
}

// NewLRU creates a new LRU with the given capacity in bytes.
// If rc is provided, it will be used to track memory usage.
func NewLRU[K comparable, V any](capacity int64, rc *resource.Controller) *LRU[K, V] {
	return &LRU[K, V]{
		capacity:  capacity,
		items:     make(map[K]*list.Element),
		evictList: list.New(),
		rc:        rc,
	}
}

// OnEvict registers fn to be called for every entry removed by eviction,
// invalidation or purge. fn runs with the cache lock held and must not call
// back into the cache.
func (c *LRU[K, V]) OnEvict(fn func(K, V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get returns a cached value and marks it as recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry[K, V]).value, true
	}
	c.misses.Add(1)
	var zero V
	return zero, false
}

// Peek returns a cached value without updating recency or statistics.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		return ent.Value.(*entry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Set caches value under key with the given cost. It reports whether the value
// was admitted; values larger than the capacity or denied by the resource
// controller are not cached.
func (c *LRU[K, V]) Set(key K, value V, cost int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[key]; ok {
		c.removeElement(ent)
	}

	if cost > c.capacity {
		return false
	}

	// Evict locally first so released memory is available to the controller.
	for c.size+cost > c.capacity {
		ent := c.evictList.Back()
		if ent == nil {
			break
		}
		c.removeElement(ent)
	}

	if c.rc != nil && !c.rc.TryAcquireMemory(cost) {
		return false
	}

	element := c.evictList.PushFront(&entry[K, V]{key: key, value: value, cost: cost})
	c.items[key] = element
	c.size += cost
	return true
}

// Remove deletes key from the cache. It reports whether the key was present.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(ent)
	return true
}

// Invalidate removes entries matching the predicate and returns how many were
// removed.
func (c *LRU[K, V]) Invalidate(predicate func(key K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for key, element := range c.items {
		if predicate(key) {
			toRemove = append(toRemove, element)
		}
	}

	for _, e := range toRemove {
		c.removeElement(e)
	}
	return len(toRemove)
}

// Purge removes every entry.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for e := c.evictList.Back(); e != nil; e = c.evictList.Back() {
		c.removeElement(e)
	}
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Size returns the current total cost of the cache in bytes.
func (c *LRU[K, V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Stats returns cache hit and miss counts.
func (c *LRU[K, V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRU[K, V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry[K, V])
	delete(c.items, kv.key)
	c.size -= kv.cost
	if c.rc != nil {
		c.rc.ReleaseMemory(kv.cost)
	}
	if c.onEvict != nil {
		c.onEvict(kv.key, kv.value)
	}
}
