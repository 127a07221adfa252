package orderevent

import (
	"context"

	"github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/order"
)

//go:generate mockgen -source=interface.go -destination=mock/publisher_mock.go -package=mock

// Publisher announces completed orders to downstream consumers.
type Publisher interface {
	PublishOrderCompleted(ctx context.Context, o *order.Order, remainingStock int64) error
	Close() error
}
