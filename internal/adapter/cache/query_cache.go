package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"assessrec/internal/domain"
)

// QueryCache is an LRU cache of rankings with a TTL. Invalidate bumps a generation
// so results computed against a previous catalogue are never served.
type QueryCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
	gen     uint64
	now     func() time.Time
}

type cacheEntry struct {
	results   []domain.Recommendation
	timestamp time.Time
	gen       uint64
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(req domain.SearchRequest) string {
	w := "default"
	if req.Weights != nil {
		w = fmt.Sprintf("%g/%g", req.Weights.Semantic, req.Weights.Skill)
	}
	data := fmt.Sprintf("%s\x00%s\x00%d\x00%s\x00%t", req.Query, req.Skills, req.TopK, w, req.Explain)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:16])
}

// Get returns a copy of the cached ranking for req.
func (c *QueryCache) Get(req domain.SearchRequest) ([]domain.Recommendation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(req)
	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}

	if c.now().Sub(entry.timestamp) > c.ttl || entry.gen != c.gen {
		delete(c.entries, key)
		c.removeFromOrder(key)
		return nil, false
	}

	c.moveToEnd(key)
	return append([]domain.Recommendation(nil), entry.results...), true
}

func (c *QueryCache) Put(req domain.SearchRequest, results []domain.Recommendation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(req, results)
}

// Generation reports the current invalidation generation. Read it before
// computing a ranking and hand it to PutIfCurrent.
func (c *QueryCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// PutIfCurrent stores results only if no Invalidate happened since gen was read.
func (c *QueryCache) PutIfCurrent(req domain.SearchRequest, results []domain.Recommendation, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.put(req, results)
	return true
}

func (c *QueryCache) put(req domain.SearchRequest, results []domain.Recommendation) {
	key := cacheKey(req)
	entry := &cacheEntry{
		results:   append([]domain.Recommendation(nil), results...),
		timestamp: c.now(),
		gen:       c.gen,
	}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[key] = entry
	c.order = append(c.order, key)
}

// Invalidate drops every entry.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.gen++
}

func (c *QueryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *QueryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *QueryCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *QueryCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
