package imageresolver

import (
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is the resolution cache: a key to resolved-URL mapping with manual
// invalidation only. Injectable so tests can supply a fresh instance per case.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, url string)
	Clear()
	ClearPrefix(entityType, entityID string)
}

// MemoryCache backs the resolution cache with an in-process go-cache store.
// Entries never expire on their own; last write wins on overlapping sets.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates an empty resolution cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		store: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get returns the cached URL for key, if present.
func (c *MemoryCache) Get(key string) (string, bool) {
	v, found := c.store.Get(key)
	if !found {
		return "", false
	}
	url, ok := v.(string)
	return url, ok
}

// Set stores url under key.
func (c *MemoryCache) Set(key, url string) {
	c.store.Set(key, url, gocache.NoExpiration)
}

// Clear drops every cached resolution.
func (c *MemoryCache) Clear() {
	c.store.Flush()
}

// ClearPrefix drops every cached resolution for one entity, across all of its
// image types. Called after an admin upsert so subsequent renders pick up the
// new override instead of a stale cached miss.
func (c *MemoryCache) ClearPrefix(entityType, entityID string) {
	prefix := cachePrefix(entityType, entityID)
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
}

// Len returns the number of cached resolutions.
func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}
