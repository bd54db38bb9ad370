package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether a client may issue another request.
// This is a port that can be implemented by different stores (Redis, in-memory, etc.).
type Limiter interface {
	// Allow consumes one unit of the key's budget. When the budget is spent it
	// returns false and how long until the current window ends.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)

	// Ping checks if the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store connection.
	Close() error
}
