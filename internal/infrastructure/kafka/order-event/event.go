package orderevent

import (
	"encoding/json"
	"time"

	"github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/order"
)

// EventType names the order.completed event.
const EventType = "order.completed"

// OrderCompleted is the payload written for every successful purchase.
type OrderCompleted struct {
	Type           string    `json:"type"`
	OrderID        string    `json:"orderId"`
	BuyerID        string    `json:"buyerId"`
	ItemID         string    `json:"itemId"`
	Quantity       int64     `json:"quantity"`
	Price          float64   `json:"price"`
	TotalAmount    float64   `json:"totalAmount"`
	RemainingStock int64     `json:"remainingStock"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewOrderCompleted builds the event for o.
func NewOrderCompleted(o *order.Order, remainingStock int64) *OrderCompleted {
	return &OrderCompleted{
		Type:           EventType,
		OrderID:        o.ID,
		BuyerID:        o.BuyerID,
		ItemID:         o.ItemID,
		Quantity:       o.Quantity,
		Price:          o.Price,
		TotalAmount:    o.TotalAmount,
		RemainingStock: remainingStock,
		CreatedAt:      o.CreatedAt,
	}
}

// ToBytes encodes the event as JSON.
func (e *OrderCompleted) ToBytes() ([]byte, error) {
	return json.Marshal(e)
}
