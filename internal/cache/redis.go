package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/sri-shubham/Everclimb/internal/chunk"
	"github.com/sri-shubham/Everclimb/internal/snapshot"
)

// Redis stores snapshot-encoded chunks under prefix+key with a TTL.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis wraps an existing client. A zero ttl stores keys without expiry.
func NewRedis(client *redis.Client, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(k Key) string { return r.prefix + k.String() }

// Get fetches and decodes the chunk stored under k.
func (r *Redis) Get(ctx context.Context, k Key) (*chunk.Chunk, error) {
	data, err := r.client.Get(ctx, r.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", k, err)
	}
	c, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", k, err)
	}
	return c, nil
}

// Put stores c under k with the configured TTL.
func (r *Redis) Put(ctx context.Context, k Key, c *chunk.Chunk) error {
	data, err := snapshot.Encode(c)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(k), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", k, err)
	}
	return nil
}
