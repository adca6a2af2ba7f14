// Package cache wraps the redis client used for cross-instance coordination.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/config"
)

type Client struct {
	rdb    *redis.Client
	prefix string
}

// New connects to redis and pings it.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}

	return NewWithClient(rdb, cfg.RedisPrefix), nil
}

func NewWithClient(rdb *redis.Client, prefix string) *Client {
	if prefix == "" {
		prefix = "advocates"
	}
	return &Client{rdb: rdb, prefix: prefix}
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Key joins the non-empty parts behind the configured prefix with ":".
func (c *Client) Key(parts ...string) string {
	var sb strings.Builder
	sb.WriteString(c.prefix)
	for _, part := range parts {
		if part != "" {
			sb.WriteString(":")
			sb.WriteString(part)
		}
	}
	return sb.String()
}
