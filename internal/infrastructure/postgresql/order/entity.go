package order

import "time"

// Status represents the status of an order.
type Status string

const (
	// OrderStatusPending is reserved for orders awaiting confirmation.
	OrderStatusPending Status = "pending"

	// OrderStatusCompleted is the status of a successful purchase.
	OrderStatusCompleted Status = "completed"

	// OrderStatusFailed is reserved for orders that could not be fulfilled.
	OrderStatusFailed Status = "failed"
)

// Order is an append-only purchase record.
type Order struct {
	ID          string    `json:"id"`
	BuyerID     string    `json:"buyerId"`
	ItemID      string    `json:"itemId"`
	ItemName    string    `json:"itemName"`
	Quantity    int64     `json:"quantity"`
	Price       float64   `json:"price"`
	TotalAmount float64   `json:"totalAmount"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
