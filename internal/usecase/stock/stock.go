package stock

import (
	"context"
	"time"

	domain "github.com/muhammadchandra19/flashsale/internal/domain/stock"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/item"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/redis/stock"
	"github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
)

// Usecase serves stock reads from the cache and keeps it seeded.
type Usecase struct {
	itemRepository item.ItemRepository
	stockCache     stock.Cache
	cacheTTL       time.Duration
	logger         logger.Interface
}

var _ domain.Usecase = (*Usecase)(nil)

// NewUsecase creates a new stock usecase. Entries loaded on a cache miss expire
// after cacheTTL.
func NewUsecase(itemRepository item.ItemRepository, stockCache stock.Cache, cacheTTL time.Duration, logger logger.Interface) *Usecase {
	return &Usecase{
		itemRepository: itemRepository,
		stockCache:     stockCache,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

func (u *Usecase) GetStock(ctx context.Context, itemID string) (int64, error) {
	cached, found, err := u.stockCache.Get(ctx, itemID)
	if err != nil {
		return 0, errors.TracerFromError(err)
	}
	if found {
		return cached, nil
	}

	it, err := u.load(ctx, itemID)
	if err != nil {
		return 0, err
	}

	if _, err := u.stockCache.SetIfAbsent(ctx, itemID, it.Stock, u.cacheTTL); err != nil {
		return 0, errors.TracerFromError(err)
	}
	return it.Stock, nil
}

func (u *Usecase) Resync(ctx context.Context, itemID string, force bool) (int64, error) {
	it, err := u.load(ctx, itemID)
	if err != nil {
		return 0, err
	}

	if force {
		err = u.stockCache.Set(ctx, itemID, it.Stock, 0)
	} else {
		_, err = u.stockCache.SetIfAbsent(ctx, itemID, it.Stock, 0)
	}
	if err != nil {
		return 0, errors.TracerFromError(err)
	}

	u.logger.InfoContext(ctx, "Stock cache resynced", logger.Field{
		Key:   "itemId",
		Value: itemID,
	}, logger.Field{
		Key:   "stock",
		Value: it.Stock,
	}, logger.Field{
		Key:   "force",
		Value: force,
	})
	return it.Stock, nil
}

func (u *Usecase) load(ctx context.Context, itemID string) (*item.Item, error) {
	it, err := u.itemRepository.FindByID(ctx, itemID)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	if it == nil {
		return nil, errors.NewErrorDetails("Item not found", string(errors.ItemNotFoundError), "itemId")
	}
	return it, nil
}
