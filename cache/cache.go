// Package cache provides the TTL cache backends merged records are
// stored in: a Redis-backed one for deployments that share lookups
// between processes and an in-process fallback.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glitterhq/ipmeta"
)

const setupPingTimeout = 2 * time.Second

// New selects a backend once, at construction time: Redis when a URL
// is configured and the server answers a ping, the in-process map on
// any setup failure. Individual calls never switch backends.
func New(ctx context.Context, redisURL string) ipmeta.Cache {
	if redisURL == "" {
		return NewMemory()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return NewMemory()
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, setupPingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()

		return NewMemory()
	}

	return NewRedis(client)
}
