// Package cache provides Redis cache-aside utilities. The cache is
// strictly optional: when Redis is unavailable every helper degrades to
// a direct fetch.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// ListTTL bounds staleness of cached list reads.
const ListTTL = 30 * time.Second

// InitRedis initializes the Redis client with the given address or URL.
func InitRedis(addr string) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			slog.Warn("invalid REDIS_URL, continuing without cache", "addr", addr, "error", err)
			client = nil
			return
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, continuing without cache", "error", err)
		client = nil
		return
	}
	slog.Info("redis connected")
}

// SetClient swaps the underlying client; used by tests with miniredis.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the current Redis client instance, or nil when the
// cache is disabled.
func GetClient() *redis.Client {
	return client
}

// PostsListKey is the cache key for the anonymous front-page post list.
func PostsListKey() string {
	return "posts:list:front"
}

// Aside implements cache-aside: return the cached value when present,
// otherwise run fetch, cache its result, and return it. dest must be a
// pointer the fetched value is also written through.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, fetch func() error) error {
	if client == nil {
		return fetch()
	}

	cached, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if unmarshalErr := json.Unmarshal(cached, dest); unmarshalErr == nil {
			return nil
		}
		// Corrupt entry; drop it and fall through to the fetch.
		client.Del(ctx, key)
	} else if !errors.Is(err, redis.Nil) {
		slog.Warn("cache read failed", "key", key, "error", err)
	}

	if err := fetch(); err != nil {
		return err
	}

	if data, err := json.Marshal(dest); err == nil {
		if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
			slog.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return nil
}

// Invalidate removes a cached entry. A nil client is a no-op.
func Invalidate(ctx context.Context, key string) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, key).Err(); err != nil {
		slog.Warn("cache invalidation failed", "key", key, "error", err)
	}
}
