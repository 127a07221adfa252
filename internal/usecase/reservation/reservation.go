package reservation

import (
	"context"

	"github.com/muhammadchandra19/flashsale/internal/domain/reservation"
	orderevent "github.com/muhammadchandra19/flashsale/internal/infrastructure/kafka/order-event"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/item"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/order"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/redis/ratelimit"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/redis/stock"
	"github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/util"
	"github.com/oklog/ulid/v2"
)

// Policies are the rate limit policies checked before every attempt.
type Policies struct {
	Purchase ratelimit.Policy
	General  ratelimit.Policy
}

// Usecase coordinates the stock cache, the durable store and the order ledger.
type Usecase struct {
	itemRepository  item.ItemRepository
	orderRepository order.OrderRepository
	stockCache      stock.Cache
	limiter         ratelimit.Limiter
	publisher       orderevent.Publisher
	policies        Policies
	logger          logger.Interface
}

var _ reservation.Usecase = (*Usecase)(nil)

// NewUsecase creates a new reservation usecase.
func NewUsecase(
	itemRepository item.ItemRepository,
	orderRepository order.OrderRepository,
	stockCache stock.Cache,
	limiter ratelimit.Limiter,
	publisher orderevent.Publisher,
	policies Policies,
	logger logger.Interface,
) *Usecase {
	return &Usecase{
		itemRepository:  itemRepository,
		orderRepository: orderRepository,
		stockCache:      stockCache,
		limiter:         limiter,
		publisher:       publisher,
		policies:        policies,
		logger:          logger,
	}
}

// Reserve runs one purchase attempt. Once the cache has been decremented the
// attempt no longer observes ctx cancellation, and every later failure puts the
// units back in the cache before returning.
func (u *Usecase) Reserve(ctx context.Context, req reservation.Request) (*reservation.Result, error) {
	if violations := req.Validate(); violations != nil {
		return &reservation.Result{Status: reservation.StatusInvalid, Violations: violations}, nil
	}

	admission, err := u.admit(ctx, req)
	if err != nil {
		return nil, err
	}
	if admission != nil {
		return &reservation.Result{Status: reservation.StatusRateLimited, Admission: admission}, nil
	}

	it, err := u.itemRepository.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	if it == nil {
		return &reservation.Result{Status: reservation.StatusItemNotFound}, nil
	}

	outcome, err := u.stockCache.DecrementIfAvailable(ctx, req.ItemID, req.Quantity)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	switch outcome.Kind {
	case stock.NotCached:
		if _, err := u.stockCache.SetIfAbsent(ctx, req.ItemID, it.Stock, 0); err != nil {
			return nil, errors.TracerFromError(err)
		}
		u.logger.InfoContext(ctx, "Stock cache reseeded", logger.Field{
			Key:   "itemId",
			Value: req.ItemID,
		}, logger.Field{
			Key:   "stock",
			Value: it.Stock,
		})
		return &reservation.Result{Status: reservation.StatusRetry}, nil
	case stock.Insufficient:
		return &reservation.Result{Status: reservation.StatusOutOfStock}, nil
	}

	return u.commit(context.WithoutCancel(ctx), req, it, outcome.Remaining)
}

// admit returns a non-nil admission when either policy denies the request.
func (u *Usecase) admit(ctx context.Context, req reservation.Request) (*ratelimit.Admission, error) {
	clientIP := req.ClientIP
	if clientIP == "" {
		clientIP = util.UnknownClientIP
	}

	checks := []struct {
		identity string
		policy   ratelimit.Policy
	}{
		{identity: req.BuyerID, policy: u.policies.Purchase},
		{identity: clientIP, policy: u.policies.General},
	}

	for _, check := range checks {
		admission, err := u.limiter.CheckAndRecord(ctx, check.identity, check.policy)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		if !admission.Allowed {
			return admission, nil
		}
	}
	return nil, nil
}

func (u *Usecase) commit(ctx context.Context, req reservation.Request, it *item.Item, scriptRemaining int64) (*reservation.Result, error) {
	updated, err := u.itemRepository.DecrementStock(ctx, req.ItemID, req.Quantity)
	if err != nil {
		u.compensate(ctx, req)
		u.logger.ErrorContext(ctx, errors.TracerFromError(err), logger.Field{
			Key:   "itemId",
			Value: req.ItemID,
		})
		return nil, errors.NewErrorDetails("Durable stock decrement failed: "+err.Error(), string(errors.PurchaseFailedError), "stock")
	}
	if updated == nil {
		u.compensate(ctx, req)
		return &reservation.Result{Status: reservation.StatusOutOfStock}, nil
	}

	o := &order.Order{
		ID:          ulid.Make().String(),
		BuyerID:     req.BuyerID,
		ItemID:      req.ItemID,
		ItemName:    it.Name,
		Quantity:    req.Quantity,
		Price:       it.Price,
		TotalAmount: it.Price * float64(req.Quantity),
		Status:      order.OrderStatusCompleted,
	}
	if _, err := u.orderRepository.Append(ctx, o); err != nil {
		// The durable decrement stays applied; only the cache is restored.
		u.compensate(ctx, req)
		u.logger.ErrorContext(ctx, errors.TracerFromError(err), logger.Field{
			Key:   "itemId",
			Value: req.ItemID,
		}, logger.Field{
			Key:   "quantity",
			Value: req.Quantity,
		})
		return nil, errors.NewErrorDetails("Order append failed: "+err.Error(), string(errors.PurchaseFailedError), "order")
	}

	remaining, found, err := u.stockCache.Get(ctx, req.ItemID)
	if err != nil || !found {
		remaining = scriptRemaining
	}

	if err := u.publisher.PublishOrderCompleted(ctx, o, remaining); err != nil {
		u.logger.WarnContext(ctx, "Order event not published", logger.Field{
			Key:   "orderId",
			Value: o.ID,
		}, logger.Field{
			Key:   "error",
			Value: err.Error(),
		})
	}

	u.logger.InfoContext(ctx, "Purchase completed", logger.Field{
		Key:   "orderId",
		Value: o.ID,
	}, logger.Field{
		Key:   "itemId",
		Value: req.ItemID,
	}, logger.Field{
		Key:   "remainingStock",
		Value: remaining,
	})

	return &reservation.Result{
		Status:         reservation.StatusPurchased,
		Order:          o,
		RemainingStock: remaining,
	}, nil
}

// compensate returns the reserved units to the cache. A failure leaves the cache
// below the durable count and is logged for reconciliation.
func (u *Usecase) compensate(ctx context.Context, req reservation.Request) {
	if _, err := u.stockCache.Increment(ctx, req.ItemID, req.Quantity); err != nil {
		u.logger.ErrorContext(ctx, errors.TracerFromError(err), logger.Field{
			Key:   "action",
			Value: "compensate stock cache",
		}, logger.Field{
			Key:   "itemId",
			Value: req.ItemID,
		}, logger.Field{
			Key:   "quantity",
			Value: req.Quantity,
		})
	}
}
