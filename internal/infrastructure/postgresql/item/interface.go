package item

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// ItemRepository is the durable store for items.
type ItemRepository interface {
	// FindByID returns nil and no error when the item does not exist.
	FindByID(ctx context.Context, id string) (*Item, error)
	// DecrementStock subtracts qty only when at least qty units remain. It returns
	// nil and no error when the condition did not match.
	DecrementStock(ctx context.Context, id string, qty int64) (*Item, error)
	Upsert(ctx context.Context, item *Item) error
	List(ctx context.Context) ([]*Item, error)
}
