package redisrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Fetch and the typed lookups when a key holds nothing.
var ErrMiss = errors.New("cache miss")

var tombstone = []byte("~invalidated")

type redisCache struct {
	rdb *redis.Client
}

func newRedisCache(rdb *redis.Client) Cache {
	return &redisCache{
		rdb: rdb,
	}
}

func (c *redisCache) Fill(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.rdb.SetNX(ctx, key, data, ttl).Err()
}

func (c *redisCache) Fetch(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}
	if bytes.Equal(data, tombstone) {
		return nil, ErrMiss
	}

	return data, nil
}

// Invalidate replaces every key with a short-lived tombstone in a single
// round trip.
func (c *redisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Set(ctx, key, tombstone, INVALIDATION_TTL)
		}
		return nil
	})
	return err
}

// Lookup decodes a cached document. A cached JSON null counts as a miss.
func Lookup[T any](c Cache, ctx context.Context, key string) (*T, error) {
	data, err := c.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	var result *T
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrMiss
	}

	return result, nil
}

// LookupList decodes a cached list. A cached JSON null is an empty list.
func LookupList[T any](c Cache, ctx context.Context, key string) ([]*T, error) {
	data, err := c.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	result := []*T{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = []*T{}
	}

	return result, nil
}
