package httpapi

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/muhammadchandra19/flashsale/internal/domain/reservation"
	"github.com/muhammadchandra19/flashsale/internal/domain/stock"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/redis/ratelimit"
	"github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/util"
)

const (
	msgPurchaseSuccessful = "Purchase successful"
	msgInvalidBody        = "Invalid request body"
	msgMissingFields      = "Missing required fields"
	msgInvalidQuantity    = "Quantity must be at least 1"
	msgRateLimited        = "Rate limit exceeded"
	msgItemNotFound       = "Item not found"
	msgOutOfStock         = "Out of stock"
	msgRetry              = "Please retry"
	msgPurchaseFailed     = "Purchase failed, please try again"
	msgInternal           = "Internal server error"

	resetTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// purchaseRequest accepts userId and productId as aliases of buyerId and itemId.
type purchaseRequest struct {
	BuyerID   string `json:"buyerId"`
	UserID    string `json:"userId"`
	ItemID    string `json:"itemId"`
	ProductID string `json:"productId"`
	Quantity  *int64 `json:"quantity"`
}

func (p purchaseRequest) toReservation(clientIP string) reservation.Request {
	req := reservation.Request{
		BuyerID:  p.BuyerID,
		ItemID:   p.ItemID,
		Quantity: 1,
		ClientIP: clientIP,
	}
	if req.BuyerID == "" {
		req.BuyerID = p.UserID
	}
	if req.ItemID == "" {
		req.ItemID = p.ProductID
	}
	if p.Quantity != nil {
		req.Quantity = *p.Quantity
	}
	return req
}

// Handler serves the purchase and stock endpoints.
type Handler struct {
	reservationUsecase reservation.Usecase
	stockUsecase       stock.Usecase
	logger             logger.Interface
	now                func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(reservationUsecase reservation.Usecase, stockUsecase stock.Usecase, logger logger.Interface) *Handler {
	return &Handler{
		reservationUsecase: reservationUsecase,
		stockUsecase:       stockUsecase,
		logger:             logger,
		now:                time.Now,
	}
}

// Purchase handles POST /api/purchase.
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	res, err := h.reservationUsecase.Reserve(ctx, body.toReservation(util.GetClientIP(ctx)))
	if err != nil {
		h.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "path",
			Value: r.URL.Path,
		})
		if errors.ErrorCodeEquals(err, string(errors.PurchaseFailedError)) {
			writeError(w, http.StatusInternalServerError, msgPurchaseFailed)
			return
		}
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	switch res.Status {
	case reservation.StatusPurchased:
		writeJSON(w, http.StatusOK, purchaseResponse{
			Success:        true,
			Message:        msgPurchaseSuccessful,
			OrderID:        res.Order.ID,
			RemainingStock: res.RemainingStock,
		})
	case reservation.StatusInvalid:
		if res.Violations != nil && res.Violations.IsAnyCodeEqual(string(errors.MissingRequiredFieldError)) {
			writeError(w, http.StatusBadRequest, msgMissingFields)
			return
		}
		writeError(w, http.StatusBadRequest, msgInvalidQuantity)
	case reservation.StatusRateLimited:
		h.setRateLimitHeaders(w, res.Admission)
		writeError(w, http.StatusTooManyRequests, msgRateLimited)
	case reservation.StatusItemNotFound:
		writeError(w, http.StatusNotFound, msgItemNotFound)
	case reservation.StatusOutOfStock:
		writeError(w, http.StatusConflict, msgOutOfStock)
	case reservation.StatusRetry:
		writeError(w, http.StatusServiceUnavailable, msgRetry)
	default:
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

func (h *Handler) setRateLimitHeaders(w http.ResponseWriter, admission *ratelimit.Admission) {
	if admission == nil {
		admission = &ratelimit.Admission{ResetTime: h.now()}
	}
	retryAfter := int64(math.Ceil(admission.RetryAfter(h.now()).Seconds()))

	w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("X-RateLimit-Reset", admission.ResetTime.UTC().Format(resetTimeLayout))
}

// GetStock handles GET /api/items/{id}/stock.
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	itemID := chi.URLParam(r, "id")

	current, err := h.stockUsecase.GetStock(ctx, itemID)
	if err != nil {
		if errors.ErrorCodeEquals(err, string(errors.ItemNotFoundError)) {
			writeError(w, http.StatusNotFound, msgItemNotFound)
			return
		}
		h.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "itemId",
			Value: itemID,
		})
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeJSON(w, http.StatusOK, stockResponse{ItemID: itemID, Stock: current})
}
