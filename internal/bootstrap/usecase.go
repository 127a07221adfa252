package bootstrap

import (
	reservationDomain "github.com/muhammadchandra19/flashsale/internal/domain/reservation"
	stockDomain "github.com/muhammadchandra19/flashsale/internal/domain/stock"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/redis/ratelimit"
	reservationUc "github.com/muhammadchandra19/flashsale/internal/usecase/reservation"
	stockUc "github.com/muhammadchandra19/flashsale/internal/usecase/stock"
)

// Usecase is the usecase layer of the reservation service.
type Usecase struct {
	ReservationUsecase reservationDomain.Usecase
	StockUsecase       stockDomain.Usecase
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() {
	limits := b.Config.RateLimit
	policies := reservationUc.Policies{
		Purchase: ratelimit.PurchasePolicy(limits.PurchaseWindow, limits.PurchaseMaxRequests),
		General:  ratelimit.GeneralPolicy(limits.GeneralWindow, limits.GeneralMaxRequests),
	}

	b.Usecase.ReservationUsecase = reservationUc.NewUsecase(
		b.Repository.ItemRepository,
		b.Repository.OrderRepository,
		b.Cache.StockCache,
		b.Cache.Limiter,
		b.Publisher,
		policies,
		b.Logger,
	)
	b.Usecase.StockUsecase = stockUc.NewUsecase(b.Repository.ItemRepository, b.Cache.StockCache, b.Config.Stock.CacheTTL, b.Logger)
}
