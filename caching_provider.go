package ipmeta

import (
	"context"
	"net"
	"time"

	"github.com/dgraph-io/ristretto"
)

type cachingProvider struct {
	Provider

	cache *ristretto.Cache
	ttl   time.Duration
}

func (c cachingProvider) Lookup(ctx context.Context, ip net.IP) (Record, error) {
	cacheKey := ip.String()

	if value, ok := c.cache.Get(cacheKey); ok {
		return value.(Record), nil
	}

	result, err := c.Provider.Lookup(ctx, ip)
	if err != nil {
		return Record{}, err
	}

	c.cache.SetWithTTL(cacheKey, result, 1, c.ttl)

	return result, nil
}

// NewCachingProvider memoizes responses of a single provider. This is
// separate from the orchestrator-level cache: it shields an expensive
// or strictly rate-limited upstream even when the merged record was
// produced by somebody else.
func NewCachingProvider(provider Provider, itemsCount uint, ttl time.Duration) Provider {
	cacheConfig := &ristretto.Config{
		MaxCost:     int64(itemsCount),
		NumCounters: 10 * int64(itemsCount),
		Metrics:     false,
		BufferItems: 64,
	}

	cache, err := ristretto.NewCache(cacheConfig)
	if err != nil {
		panic(err)
	}

	return cachingProvider{
		Provider: provider,
		cache:    cache,
		ttl:      ttl,
	}
}
