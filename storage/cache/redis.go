// Package cache stores JSON-encoded values in Redis under a key prefix.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/iclaudiaadeline/Inzozi-Rwanda/core"
)

var (
	ErrNotFound     = errors.New("cache: key not found")
	ErrNotAvailable = errors.New("cache: not available")
)

// StatsPrefix namespaces the admin statistics.
const StatsPrefix = "inzozi:stats:"

// Helper reads and writes JSON values. A Helper without a client is a no-op cache:
// Get always misses and Set silently succeeds.
type Helper struct {
	client *redis.Client
	prefix string
}

func NewHelper(client *redis.Client, prefix string) *Helper {
	return &Helper{client: client, prefix: prefix}
}

// NewClient returns nil when no Redis address is configured.
func NewClient(conf *core.Config) *redis.Client {
	if conf.Redis.Address == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Address,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
}

func (c *Helper) key(k string) string {
	return c.prefix + k
}

func (c *Helper) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrNotAvailable
	}

	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return errors.Wrap(err, "cache get")
	}
	return errors.Wrap(json.Unmarshal(data, dest), "cache unmarshal")
}

func (c *Helper) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "cache marshal")
	}
	return errors.Wrap(c.client.Set(ctx, c.key(key), data, ttl).Err(), "cache set")
}

func (c *Helper) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, 0, len(keys))
	for _, k := range keys {
		prefixed = append(prefixed, c.key(k))
	}
	return errors.Wrap(c.client.Del(ctx, prefixed...).Err(), "cache delete")
}

// Ping reports whether Redis is reachable. A Helper without a client is always reachable.
func (c *Helper) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
