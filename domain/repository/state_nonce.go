package repository

import (
	"context"
	"time"
)

// IStateNonce is the single-use guard for OAuth callback states.
type IStateNonce interface {
	// Consume returns true on the first use of a nonce and false on replay.
	Consume(ctx context.Context, nonce string, ttl time.Duration) (bool, error)
}
