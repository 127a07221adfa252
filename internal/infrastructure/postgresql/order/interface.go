package order

import "context"

//go:generate mockgen -source=interface.go -destination=mock/repository_mock.go -package=mock

// OrderRepository is the append-only order ledger.
type OrderRepository interface {
	// Append stores order and returns its ID, generating one when order.ID is empty.
	Append(ctx context.Context, order *Order) (string, error)
	// GetByID returns nil and no error when the order does not exist.
	GetByID(ctx context.Context, id string) (*Order, error)
	// SumQuantityByItem returns the total quantity of completed orders for an item.
	SumQuantityByItem(ctx context.Context, itemID string) (int64, error)
}
