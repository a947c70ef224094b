package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glitterhq/ipmeta"
)

type redisCache struct {
	client *redis.Client
}

func (c *redisCache) Get(ctx context.Context, key string) (*ipmeta.Record, error) {
	raw, err := c.client.Get(ctx, key).Bytes()

	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("cannot read from redis: %w", err)
	}

	record := &ipmeta.Record{}

	if err := json.Unmarshal(raw, record); err != nil {
		return nil, fmt.Errorf("cannot decode a cached record: %w", err)
	}

	return record, nil
}

func (c *redisCache) Set(ctx context.Context, key string, record *ipmeta.Record, ttl time.Duration) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("cannot encode a record: %w", err)
	}

	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cannot write to redis: %w", err)
	}

	return nil
}

// NewRedis wraps an existing Redis client. Records are stored as JSON
// with a server-side expiry; the server forgets them on its own, no
// eviction logic lives here.
func NewRedis(client *redis.Client) ipmeta.Cache {
	return &redisCache{
		client: client,
	}
}
