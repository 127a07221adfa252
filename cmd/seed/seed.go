package main

import (
	"context"

	domain "github.com/muhammadchandra19/flashsale/internal/domain/stock"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/item"
	"github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/postgresql"
)

const clearOrdersQuery = `DELETE FROM orders`

func demoItems() []*item.Item {
	return []*item.Item{
		{
			ID:          "676f00000000000000000001",
			Name:        "iPhone 15 Pro",
			Description: "Titanium. So strong. So light. So Pro.",
			Price:       999,
			Stock:       10,
			ImageURL:    "https://example.com/iphone15pro.jpg",
		},
		{
			ID:          "676f00000000000000000002",
			Name:        "MacBook Pro M3",
			Description: "Mind-blowing. Head-turning.",
			Price:       1999,
			Stock:       5,
			ImageURL:    "https://example.com/macbookpro.jpg",
		},
		{
			ID:          "676f00000000000000000003",
			Name:        "AirPods Pro",
			Description: "Adaptive Audio. Now playing.",
			Price:       249,
			Stock:       50,
			ImageURL:    "https://example.com/airpodspro.jpg",
		},
	}
}

type seeder struct {
	db             postgresql.PostgreSQLClient
	itemRepository item.ItemRepository
	stockUsecase   domain.Usecase
	logger         logger.Interface
}

// Run clears the order ledger, resets every demo item and force-syncs its
// cached stock. The durable reset is a single transaction.
func (s *seeder) Run(ctx context.Context, items []*item.Item) error {
	err := postgresql.WithTx(ctx, s.db, func(ctx context.Context) error {
		if _, err := s.db.Exec(ctx, clearOrdersQuery); err != nil {
			return errors.TracerFromError(err)
		}
		for _, it := range items {
			if err := s.itemRepository.Upsert(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, it := range items {
		if _, err := s.stockUsecase.Resync(ctx, it.ID, true); err != nil {
			return err
		}
		s.logger.Info("Seeded item", logger.Field{
			Key:   "itemId",
			Value: it.ID,
		}, logger.Field{
			Key:   "name",
			Value: it.Name,
		}, logger.Field{
			Key:   "stock",
			Value: it.Stock,
		})
	}
	return nil
}
