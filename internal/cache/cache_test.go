package cache

import (
	"context"
	"os"
	"sync"
	"testing"
	"tier-resolver/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryProfileCache_StoresCopy(t *testing.T) {
	c := NewMemoryProfileCache(metrics.New())
	ctx := context.Background()

	_, ok := c.Get(ctx, "Alex")
	assert.False(t, ok)

	raw := []byte(`{"name":"Alex"}`)
	c.Put(ctx, "Alex", raw)
	raw[2] = 'X'

	got, ok := c.Get(ctx, "Alex")
	require.True(t, ok)
	assert.Equal(t, `{"name":"Alex"}`, string(got))

	c.Delete(ctx, "Alex")
	_, ok = c.Get(ctx, "Alex")
	assert.False(t, ok)
}

func TestMemoryProfileCache_ConcurrentAccess(t *testing.T) {
	c := NewMemoryProfileCache(metrics.New())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Put(ctx, "Alex", []byte(`{"name":"Alex"}`))
		}()
		go func() {
			defer wg.Done()
			c.Get(ctx, "Alex")
		}()
	}
	wg.Wait()

	_, ok := c.Get(ctx, "Alex")
	assert.True(t, ok)
}

func TestTierMapCache_AbsentIsNotEmpty(t *testing.T) {
	c := NewTierMapCache(metrics.New())

	_, ok := c.Get("Steve")
	assert.False(t, ok)

	c.Put("Steve", nil)
	tiers, ok := c.Get("Steve")
	require.True(t, ok)
	assert.NotNil(t, tiers)
	assert.Empty(t, tiers)

	c.Put("Steve", map[string]string{"pot": "HT3"})
	tiers, ok = c.Get("Steve")
	require.True(t, ok)
	assert.Equal(t, "HT3", tiers["pot"])

	c.Evict("Steve")
	_, ok = c.Get("Steve")
	assert.False(t, ok)
}

func TestRedisProfileCache_RoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	c, err := NewRedisProfileCache(url, zerolog.Nop(), metrics.New())
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	c.Delete(ctx, "RedisTest")
	_, ok := c.Get(ctx, "RedisTest")
	assert.False(t, ok)

	c.Put(ctx, "RedisTest", []byte(`{"name":"RedisTest"}`))
	got, ok := c.Get(ctx, "RedisTest")
	require.True(t, ok)
	assert.Equal(t, `{"name":"RedisTest"}`, string(got))

	c.Delete(ctx, "RedisTest")
}
