package redisrepo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// INVALIDATION_TTL is how long an invalidated key refuses to be filled again.
// It bounds the time between a store read and the cache fill that follows it.
const INVALIDATION_TTL = 10 * time.Second

// Cache holds JSON documents. Fill never overwrites a key, so a document read
// before an invalidation cannot replace the marker Invalidate leaves behind.
type Cache interface {
	Fill(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Fetch(ctx context.Context, key string) ([]byte, error)
	Invalidate(ctx context.Context, keys ...string) error
}

type RedisRepository struct {
	Cache
}

func New(rdb *redis.Client) *RedisRepository {
	return &RedisRepository{
		Cache: newRedisCache(rdb),
	}
}

// Memory returns an in-process cache with the same fill and invalidation
// rules as the redis one.
func Memory() *RedisRepository {
	return MemoryWithClock(time.Now)
}

// MemoryWithClock is Memory with expiry measured by now.
func MemoryWithClock(now func() time.Time) *RedisRepository {
	return &RedisRepository{
		Cache: newMemoryCache(now),
	}
}

// Disabled returns a cache that never holds anything: every Fetch misses and
// writes are dropped.
func Disabled() *RedisRepository {
	return &RedisRepository{
		Cache: disabledCache{},
	}
}

type disabledCache struct{}

func (disabledCache) Fill(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (disabledCache) Fetch(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrMiss
}

func (disabledCache) Invalidate(ctx context.Context, keys ...string) error {
	return nil
}
