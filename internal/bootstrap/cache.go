package bootstrap

import (
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/redis/ratelimit"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/redis/stock"
)

// Cache is the Redis-backed state of the reservation service.
type Cache struct {
	StockCache stock.Cache
	Limiter    ratelimit.Limiter
}

func (b *Bootstrap) registerCache() {
	b.Cache.StockCache = stock.NewCache(b.Redis, b.Logger)
	b.Cache.Limiter = ratelimit.NewLimiter(b.Redis, b.Logger)
}
