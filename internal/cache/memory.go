package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Stromjold/Sistem-Cesfam/internal/model"
)

// MemoryCache implements in-memory caching of parsed datasets.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache with the given TTL.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a dataset from the cache.
func (c *MemoryCache) Get(key string) (*model.Dataset, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(*model.Dataset), true
	}
	return nil, false
}

// Set stores a dataset in the cache with the default TTL.
func (c *MemoryCache) Set(key string, ds *model.Dataset) {
	c.cache.SetDefault(key, ds)
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}
