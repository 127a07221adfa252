package reservation

import (
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/order"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/redis/ratelimit"
	"github.com/muhammadchandra19/flashsale/pkg/errors"
)

// Status is the business outcome of a reservation attempt.
type Status string

const (
	// StatusPurchased means stock was taken and the order recorded.
	StatusPurchased Status = "purchased"
	// StatusInvalid means the request failed validation.
	StatusInvalid Status = "invalid"
	// StatusRateLimited means the buyer or origin exceeded its window.
	StatusRateLimited Status = "rate_limited"
	// StatusItemNotFound means the item does not exist.
	StatusItemNotFound Status = "item_not_found"
	// StatusRetry means the stock cache was cold and has been reseeded.
	StatusRetry Status = "retry"
	// StatusOutOfStock means not enough units remain.
	StatusOutOfStock Status = "out_of_stock"
)

// Request is a purchase attempt.
type Request struct {
	BuyerID  string
	ItemID   string
	Quantity int64
	ClientIP string
}

// Validate collects every problem with the request. It returns nil when the
// request is valid.
func (r Request) Validate() *errors.BaseError {
	violations := errors.NewBaseError()
	if r.BuyerID == "" {
		violations.AddErrorDetails(errors.NewErrorDetails("buyerId is required", string(errors.MissingRequiredFieldError), "buyerId"))
	}
	if r.ItemID == "" {
		violations.AddErrorDetails(errors.NewErrorDetails("itemId is required", string(errors.MissingRequiredFieldError), "itemId"))
	}
	if r.Quantity < 1 {
		violations.AddErrorDetails(errors.NewErrorDetailsWithObject("quantity must be at least 1", string(errors.InvalidQuantityError), "quantity", r.Quantity))
	}
	if !violations.HasDetails() {
		return nil
	}
	return violations
}

// Result describes how a reservation attempt ended. Order and RemainingStock are
// set for StatusPurchased, Admission for StatusRateLimited and Violations for
// StatusInvalid.
type Result struct {
	Status         Status
	Order          *order.Order
	RemainingStock int64
	Admission      *ratelimit.Admission
	Violations     *errors.BaseError
}
