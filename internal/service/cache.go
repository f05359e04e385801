package service

import (
	"container/list"
	"sync"
	"time"

	"github.com/jjenkins/neows/internal/metrics"
)

const (
	defaultCacheTTL      = 5 * time.Minute
	defaultCacheCapacity = 256
)

// ResponseCache holds raw NeoWs response bodies keyed by the exact request
// URL. Entries are fresh for ttl and the least recently used entry is
// evicted once capacity is reached.
type ResponseCache struct {
	ttl      time.Duration
	capacity int
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
}

type cacheEntry struct {
	key       string
	body      []byte
	expiresAt time.Time
}

// NewResponseCache creates a cache. Non-positive arguments select the defaults.
func NewResponseCache(ttl time.Duration, capacity int) *ResponseCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &ResponseCache{
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the body stored under key if it has not expired.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		metrics.RecordCacheLookup("miss")
		return nil, false
	}

	entry := el.Value.(*cacheEntry)
	if !c.now().Before(entry.expiresAt) {
		metrics.RecordCacheLookup("expired")
		return nil, false
	}

	c.order.MoveToFront(el)
	metrics.RecordCacheLookup("hit")
	return entry.body, true
}

// Set stores body under key with a fresh expiry, replacing any previous entry.
func (c *ResponseCache) Set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(c.ttl)

	if el, ok := c.entries[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.body = body
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, body: body, expiresAt: expiresAt})

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		metrics.RecordCacheEviction()
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// TTL returns the freshness window.
func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}
