package cache

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/vallemarketing/valle360-social/infrastructure/logger"
)

// NewCache connects to Redis. Callers tolerate a nil client; cache-backed
// features degrade instead of blocking startup.
func NewCache(ctx context.Context, addr, username, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not reachable")
		return nil, err
	}
	return client, nil
}
