package cache

import (
	"context"
	"sync"
	"tier-resolver/internal/metrics"
)

// ProfileCache memoizes confirmed ranking payloads by username. Entries never
// expire; only payloads known to describe a real profile may be stored.
type ProfileCache interface {
	Get(ctx context.Context, username string) ([]byte, bool)
	Put(ctx context.Context, username string, raw []byte)
	Delete(ctx context.Context, username string)
}

type MemoryProfileCache struct {
	entries sync.Map
	metrics *metrics.Metrics
}

func NewMemoryProfileCache(m *metrics.Metrics) *MemoryProfileCache {
	return &MemoryProfileCache{metrics: m}
}

func (c *MemoryProfileCache) Get(_ context.Context, username string) ([]byte, bool) {
	v, ok := c.entries.Load(username)
	c.metrics.ObserveCache("profile", ok)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

func (c *MemoryProfileCache) Put(_ context.Context, username string, raw []byte) {
	stored := make([]byte, len(raw))
	copy(stored, raw)
	c.entries.Store(username, stored)
}

func (c *MemoryProfileCache) Delete(_ context.Context, username string) {
	c.entries.Delete(username)
}
