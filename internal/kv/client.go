// Package kv persists ledger snapshots to a local Redis-protocol key-value
// store. By default the store is an embedded miniredis instance, so the
// application runs fully offline; pointing REDIS_ADDR at a real server makes
// the data survive restarts.
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Persisted state layout: three keys, each replaced wholesale on write.
const (
	// KeyInventory holds the JSON array of product records.
	KeyInventory = "inventory"
	// KeySales holds the JSON array of sale records.
	KeySales = "sales"
	// KeyTheme holds the UI theme preference ("dark" or "light").
	KeyTheme = "theme"
)

// Client wraps a Redis connection used as a plain key-value store.
type Client struct {
	rdb      *redis.Client
	embedded *miniredis.Miniredis
}

// NewClient connects to an external Redis-protocol server.
func NewClient(ctx context.Context, addr string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("kv: ping %s: %w", addr, err)
	}
	return &Client{rdb: rdb}, nil
}

// NewEmbedded starts an in-process miniredis instance and connects to it.
func NewEmbedded() (*Client, error) {
	mr, err := miniredis.Run()
	if err != nil {
		return nil, fmt.Errorf("kv: start embedded store: %w", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &Client{rdb: rdb, embedded: mr}, nil
}

// Get fetches a key. The second return value is false when the key has
// never been written.
func (c *Client) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("kv: get %s: %w", key, err)
	}
	return data, true, nil
}

// Set replaces a key's value. No TTL: snapshots live until overwritten.
func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	if err := c.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("kv: set %s: %w", key, err)
	}
	return nil
}

// Redis exposes the underlying client for collaborators that speak Redis
// directly, such as the session manager.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close releases the connection and stops the embedded store, if any.
func (c *Client) Close() error {
	err := c.rdb.Close()
	if c.embedded != nil {
		c.embedded.Close()
	}
	return err
}
