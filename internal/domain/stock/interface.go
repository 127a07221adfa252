package stock

import "context"

// Usecase is the interface for stock reads and cache maintenance.
//
//go:generate mockgen -source=interface.go -destination=mock/usecase_mock.go -package=mock
type Usecase interface {
	// GetStock returns the cached stock, loading it from the durable store on a
	// miss. A missing item yields an error coded item_not_found_error.
	GetStock(ctx context.Context, itemID string) (int64, error)
	// Resync copies the durable stock into the cache. Without force an existing
	// cache entry is kept.
	Resync(ctx context.Context, itemID string, force bool) (int64, error)
}
