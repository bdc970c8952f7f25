// Package cache provides Redis-backed caching for hot read paths.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gudang/pkg/logger"
)

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, url, password string, db int) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if password != "" {
		opt.Password = password
	}
	opt.DB = db

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.Info(ctx, "redis connection established", "addr", opt.Addr, "db", db)

	return client, nil
}
