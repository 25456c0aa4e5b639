package cache

import (
	"sync"
	"tier-resolver/internal/metrics"
)

// TierMapCache holds scraped mode->tier maps per player. A missing entry means
// the player was never scraped; an empty map means scraped with no tiers.
type TierMapCache struct {
	entries sync.Map
	metrics *metrics.Metrics
}

func NewTierMapCache(m *metrics.Metrics) *TierMapCache {
	return &TierMapCache{metrics: m}
}

func (c *TierMapCache) Get(username string) (map[string]string, bool) {
	v, ok := c.entries.Load(username)
	c.metrics.ObserveCache("vanilla_tiers", ok)
	if !ok {
		return nil, false
	}
	return v.(map[string]string), true
}

func (c *TierMapCache) Put(username string, tiers map[string]string) {
	if tiers == nil {
		tiers = map[string]string{}
	}
	c.entries.Store(username, tiers)
}

func (c *TierMapCache) Evict(username string) {
	c.entries.Delete(username)
}
