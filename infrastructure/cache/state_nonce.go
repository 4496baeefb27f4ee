package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vallemarketing/valle360-social/infrastructure/logger"
)

const stateNoncePrefix = "oauth_state:"

// StateNonceCache enforces single-use OAuth states: the first callback that
// presents a nonce consumes it, a replay is refused. The signed expiry on the
// state itself still bounds the window when Redis is unavailable.
type StateNonceCache struct {
	client *redis.Client
}

func NewStateNonceCache(client *redis.Client) *StateNonceCache {
	return &StateNonceCache{client: client}
}

// Consume returns true when this is the first use of the nonce.
func (c *StateNonceCache) Consume(ctx context.Context, nonce string, ttl time.Duration) (bool, error) {
	if c.client == nil {
		// Degraded mode without Redis: signed expiry is the only guard.
		logger.GetLogger().Debug("State nonce cache unavailable; skipping single-use check")
		return true, nil
	}
	ok, err := c.client.SetNX(ctx, stateNoncePrefix+nonce, 1, ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}
