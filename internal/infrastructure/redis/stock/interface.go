package stock

import (
	"context"
	"time"
)

//go:generate mockgen -source=interface.go -destination=mock/cache_mock.go -package=mock

// Cache is the fast stock counter kept in Redis under stock:<itemID>.
type Cache interface {
	// Get returns found=false when the item is not cached.
	Get(ctx context.Context, itemID string) (value int64, found bool, err error)
	// DecrementIfAvailable atomically takes amount units when enough are cached.
	DecrementIfAvailable(ctx context.Context, itemID string, amount int64) (Outcome, error)
	// Increment unconditionally adds amount units back and returns the new value.
	Increment(ctx context.Context, itemID string, amount int64) (int64, error)
	// SetIfAbsent seeds the counter only when no value is cached. ttl 0 means no expiry.
	SetIfAbsent(ctx context.Context, itemID string, value int64, ttl time.Duration) (bool, error)
	// Set overwrites the counter. ttl 0 means no expiry.
	Set(ctx context.Context, itemID string, value int64, ttl time.Duration) error
}
