package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/glitterhq/ipmeta"
)

const memoryCleanupInterval = 5 * time.Minute

type memoryCache struct {
	items *gocache.Cache
}

func (c *memoryCache) Get(_ context.Context, key string) (*ipmeta.Record, error) {
	value, ok := c.items.Get(key)
	if !ok {
		return nil, nil
	}

	// records are stored by value so a cached copy stays an immutable
	// snapshot whatever the caller does with the returned one.
	record := value.(ipmeta.Record)

	return &record, nil
}

func (c *memoryCache) Set(_ context.Context, key string, record *ipmeta.Record, ttl time.Duration) error {
	c.items.Set(key, *record, ttl)

	return nil
}

// NewMemory is the in-process fallback backend: a TTL map with lazy
// expiry on read and a periodic sweep for entries nobody asks about.
func NewMemory() ipmeta.Cache {
	return &memoryCache{
		items: gocache.New(gocache.NoExpiration, memoryCleanupInterval),
	}
}
