package memstore

import (
	"sync"

	"assessrec/internal/port"
)

// VectorCache keeps one snapshot in memory. It is used when the persistent
// cache is disabled and in tests.
type VectorCache struct {
	mu    sync.RWMutex
	snap  *port.Snapshot
	saves int
}

func NewVectorCache() *VectorCache {
	return &VectorCache{}
}

func (c *VectorCache) Load() (*port.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return nil, port.ErrCacheMiss
	}
	return clone(c.snap), nil
}

func (c *VectorCache) Save(snap *port.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = clone(snap)
	c.saves++
	return nil
}

// Saves returns how many times Save was called.
func (c *VectorCache) Saves() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.saves
}

func (c *VectorCache) Close() error {
	return nil
}

func clone(s *port.Snapshot) *port.Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Vectors = make([][]float64, len(s.Vectors))
	for i, v := range s.Vectors {
		out.Vectors[i] = append([]float64(nil), v...)
	}
	out.Texts = append([]string(nil), s.Texts...)
	return &out
}
