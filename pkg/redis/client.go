// Package redis wraps go-redis with key namespacing. The scheduler uses it
// for the assignment run lock and cached capacity forecasts.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/lineflow-mfg/lineflow-backend/pkg/config"
)

type Client struct {
	rdb       *goredis.Client
	namespace string
}

func New(cfg config.Redis) *Client {
	return &Client{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		namespace: cfg.Namespace,
	}
}

// Key prefixes k with the configured namespace.
func (c *Client) Key(k string) string {
	return fmt.Sprintf("%s:%s", c.namespace, k)
}

// SetNX sets the namespaced key only if absent, returning whether it won.
func (c *Client) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, c.Key(key), value, ttl).Result()
}

// Get fetches a namespaced key. Missing keys return ("", nil).
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, c.Key(key)).Result()
	if err == goredis.Nil {
		return "", nil
	}
	return val, err
}

// Set writes a namespaced key with a TTL.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.Key(key), value, ttl).Err()
}

// Del removes a namespaced key.
func (c *Client) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, c.Key(key)).Err()
}

// Ping verifies connectivity for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error { return c.rdb.Close() }
