package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache fronts presigned-URL resolution so a burst of snapshot emits
// does not re-sign every object on each change.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

func (c *Cache) key(name string) string { return fmt.Sprintf("%s:url:%s", c.prefix, name) }

func (c *Cache) Get(ctx context.Context, name string) (string, bool) {
	val, err := c.client.Get(ctx, c.key(name)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, name, url string) {
	_ = c.client.Set(ctx, c.key(name), url, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, name string) {
	_ = c.client.Del(ctx, c.key(name)).Err()
}
