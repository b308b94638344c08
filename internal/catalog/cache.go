package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/toko-pos/internal/resilience"
)

const (
	productsKey      = "catalog:products"
	productKeyPrefix = "catalog:product:"
)

// Cache wraps Redis helpers for JSON payloads. Calls go through an optional
// breaker; while it is open the cache behaves as if empty.
type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *resilience.Breaker
}

// NewCache constructs a cache helper. A nil client yields a cache that never hits.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

// WithBreaker guards redis calls with b.
func (c *Cache) WithBreaker(b *resilience.Breaker) *Cache {
	if c != nil {
		c.breaker = b
	}
	return c
}

func (c *Cache) do(ctx context.Context, fn func(ctx context.Context) error) error {
	err := c.breaker.Do(ctx, fn, func(err error) bool { return !errors.Is(err, redis.Nil) })
	if errors.Is(err, resilience.ErrOpenCircuit) {
		return errSkipped
	}
	return err
}

var errSkipped = errors.New("catalog cache: skipped")

// GetJSON unmarshals a cached JSON payload into dst. It reports whether the key existed.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c == nil || c.client == nil || key == "" {
		return false, nil
	}
	var data []byte
	err := c.do(ctx, func(ctx context.Context) error {
		var err error
		data, err = c.client.Get(ctx, key).Bytes()
		return err
	})
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, errSkipped) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON serialises v as JSON and stores it with the configured TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	if c == nil || c.client == nil || key == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ignoreSkipped(c.do(ctx, func(ctx context.Context) error {
		return c.client.Set(ctx, key, data, c.ttl).Err()
	}))
}

// Delete evicts keys.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || c.client == nil || len(keys) == 0 {
		return nil
	}
	return ignoreSkipped(c.do(ctx, func(ctx context.Context) error {
		return c.client.Del(ctx, keys...).Err()
	}))
}

func ignoreSkipped(err error) error {
	if errors.Is(err, errSkipped) {
		return nil
	}
	return err
}

// Ping probes the backing redis server.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func productKey(id int64) string {
	return productKeyPrefix + strconv.FormatInt(id, 10)
}
