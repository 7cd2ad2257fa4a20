package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage is a Redis-backed storage implementation.
// It's suitable for kiosk-style deployments where several clients on one
// counter share a single signed-in session.
type RedisStorage struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	opTime time.Duration
}

// RedisStorageOption configures RedisStorage behavior.
type RedisStorageOption func(*redisStorageConfig)

type redisStorageConfig struct {
	prefix  string
	ttl     time.Duration
	timeout time.Duration
}

// WithRedisPrefix sets the key prefix for storage keys.
// Default: "shopkit:storage:".
func WithRedisPrefix(prefix string) RedisStorageOption {
	return func(c *redisStorageConfig) {
		c.prefix = prefix
	}
}

// WithRedisTTL sets an expiration on stored values. Zero (the default)
// means values persist until removed, matching the other backends.
func WithRedisTTL(ttl time.Duration) RedisStorageOption {
	return func(c *redisStorageConfig) {
		c.ttl = ttl
	}
}

// WithRedisTimeout bounds each Redis operation. Default: 5 seconds.
func WithRedisTimeout(d time.Duration) RedisStorageOption {
	return func(c *redisStorageConfig) {
		c.timeout = d
	}
}

// NewRedisStorage creates a Redis-backed storage using the given client.
// The client is shared, not owned: closing it is the caller's concern.
func NewRedisStorage(client redis.Cmdable, opts ...RedisStorageOption) *RedisStorage {
	cfg := &redisStorageConfig{
		prefix:  "shopkit:storage:",
		timeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &RedisStorage{
		client: client,
		prefix: cfg.prefix,
		ttl:    cfg.ttl,
		opTime: cfg.timeout,
	}
}

func (r *RedisStorage) key(k string) string {
	return r.prefix + k
}

func (r *RedisStorage) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.opTime)
}

// Get returns the value stored under key.
// Backend errors (including a down Redis) degrade to absence; the session
// layer already treats storage as best-effort.
func (r *RedisStorage) Get(key string) (string, bool) {
	ctx, cancel := r.opContext()
	defer cancel()

	v, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

// Set stores value under key.
func (r *RedisStorage) Set(key, value string) error {
	ctx, cancel := r.opContext()
	defer cancel()

	return r.client.Set(ctx, r.key(key), value, r.ttl).Err()
}

// Remove deletes key from Redis.
func (r *RedisStorage) Remove(key string) error {
	ctx, cancel := r.opContext()
	defer cancel()

	err := r.client.Del(ctx, r.key(key)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// Prefix returns the current key prefix.
// This is for testing/debugging purposes.
func (r *RedisStorage) Prefix() string {
	return r.prefix
}
