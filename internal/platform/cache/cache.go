package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// JSONCache stores JSON payloads under versioned namespace keys. Bumping a
// namespace version orphans every key built with the previous one.
type JSONCache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewJSONCache instantiates the cache helper. A nil client disables caching.
func NewJSONCache(client *redis.Client, ttl time.Duration) *JSONCache {
	return &JSONCache{client: client, ttl: ttl}
}

func versionKey(namespace string) string {
	return "cache:" + namespace + ":version"
}

// Version returns the current namespace version, zero when never bumped.
func (c *JSONCache) Version(ctx context.Context, namespace string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(namespace)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return ver, err
}

// Bump invalidates every cached entry of namespace.
func (c *JSONCache) Bump(ctx context.Context, namespace string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey(namespace)).Err()
}

// FetchJSON decodes the cached value for namespace/key into dest, calling
// loader on a miss. Concurrent misses for the same key share one loader call.
func (c *JSONCache) FetchJSON(ctx context.Context, namespace, key string, dest any, loader func(context.Context) (any, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return roundTrip(value, dest)
	}

	ver, err := c.Version(ctx, namespace)
	if err != nil {
		return fmt.Errorf("cache: version: %w", err)
	}
	fullKey := fmt.Sprintf("cache:%s:%d:%s", namespace, ver, key)

	raw, err := c.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		return json.Unmarshal(raw, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache: get: %w", err)
	}

	// Waiters share one loader; it runs detached from the caller that started it.
	shared := context.WithoutCancel(ctx)
	result := c.group.DoChan(fullKey, func() (any, error) {
		value, err := loader(shared)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.client.Set(shared, fullKey, data, c.ttl).Err(); err != nil {
			return nil, fmt.Errorf("cache: set: %w", err)
		}
		return data, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.([]byte), dest)
	}
}

func roundTrip(value, dest any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
