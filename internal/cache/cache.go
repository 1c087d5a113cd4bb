// Package cache provides the time-boxed memoization store backing
// analytics reads. Invalidation is prefix-based so lifecycle transitions
// can sweep every aggregate key in one call.
package cache

import (
	"context"
	"time"
)

// Store is the caching capability used by analytics.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, prefixes ...string) int
}
