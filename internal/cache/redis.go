package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection settings for NewRedisClient.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Redis stores JSON-encoded values under prefix:key with a fixed TTL.
// A zero TTL keeps keys until they are deleted.
type Redis[T any] struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewRedis[T any](rdb redis.Cmdable, prefix string, ttl time.Duration) *Redis[T] {
	return &Redis[T]{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *Redis[T]) key(k string) string {
	return c.prefix + ":" + k
}

func (c *Redis[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var v T

	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	}

	if err != nil {
		return v, false, fmt.Errorf("getting %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, fmt.Errorf("decoding %s: %w", key, err)
	}

	return v, true, nil
}

func (c *Redis[T]) Set(ctx context.Context, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}

	if err := c.rdb.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}

	return nil
}

func (c *Redis[T]) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}

	return nil
}
