package bootstrap

import (
	itemInfra "github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/item"
	orderInfra "github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/order"
)

// Repository is the durable store of the reservation service.
type Repository struct {
	ItemRepository  itemInfra.ItemRepository
	OrderRepository orderInfra.OrderRepository
}

// registerRepository registers the repository.
func (b *Bootstrap) registerRepository() {
	b.Repository.ItemRepository = itemInfra.NewRepository(b.PostgreSQL, b.Logger)
	b.Repository.OrderRepository = orderInfra.NewRepository(b.PostgreSQL, b.Logger)
}
