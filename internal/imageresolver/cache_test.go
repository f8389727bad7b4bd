package imageresolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()

	_, found := c.Get("destination:alaska:hero")
	assert.False(t, found)

	c.Set("destination:alaska:hero", "/a.webp")
	got, found := c.Get("destination:alaska:hero")
	assert.True(t, found)
	assert.Equal(t, "/a.webp", got)

	// Last write wins
	c.Set("destination:alaska:hero", "/b.webp")
	got, _ = c.Get("destination:alaska:hero")
	assert.Equal(t, "/b.webp", got)
}

func TestMemoryCacheClear(t *testing.T) {
	c := NewMemoryCache()
	c.Set("destination:alaska:hero", "/a.webp")
	c.Set("site:site:logo", "/b.webp")

	c.Clear()

	assert.Equal(t, 0, c.Len())
}

func TestMemoryCacheClearPrefix(t *testing.T) {
	c := NewMemoryCache()
	c.Set(CacheKey("destination", "alaska", "hero"), "/a.webp")
	c.Set(CacheKey("destination", "alaska", "card"), "/b.webp")
	c.Set(CacheKey("destination", "alaska-peninsula", "hero"), "/c.webp")
	c.Set(CacheKey("port-guide", "alaska", "hero"), "/d.webp")

	c.ClearPrefix("destination", "alaska")

	_, found := c.Get(CacheKey("destination", "alaska", "hero"))
	assert.False(t, found)
	_, found = c.Get(CacheKey("destination", "alaska", "card"))
	assert.False(t, found)

	// Similar ids and other entity types are untouched
	_, found = c.Get(CacheKey("destination", "alaska-peninsula", "hero"))
	assert.True(t, found)
	_, found = c.Get(CacheKey("port-guide", "alaska", "hero"))
	assert.True(t, found)
}
