package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c, err := NewCache(10)
	assert.NoError(t, err)

	c.Set("feed:home:page:1", "payload", 20*time.Second)
	assert.Equal(t, "payload", c.Get("feed:home:page:1"))
	assert.Nil(t, c.Get("feed:home:page:2"))

	c.Delete("feed:home:page:1")
	assert.Nil(t, c.Get("feed:home:page:1"))
}

func TestCacheTTLBoundary(t *testing.T) {
	c, err := NewCache(10)
	assert.NoError(t, err)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	c.Set("feed:home:page:1", "stale ok", 20*time.Second)

	// Within the TTL the cached value is still served, even if the
	// underlying data changed meanwhile.
	now = base.Add(19 * time.Second)
	assert.Equal(t, "stale ok", c.Get("feed:home:page:1"))

	// Once the interval has elapsed the entry is gone.
	now = base.Add(21 * time.Second)
	assert.Nil(t, c.Get("feed:home:page:1"))
}
