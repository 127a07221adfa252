package order

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/postgresql"
	"github.com/oklog/ulid/v2"
)

const (
	appendQuery = `INSERT INTO orders (id, buyer_id, item_id, item_name, quantity, price, total_amount, status, created_at) ` +
		`VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	getByIDQuery = `SELECT id, buyer_id, item_id, item_name, quantity, price, total_amount, status, created_at ` +
		`FROM orders WHERE id = $1`

	sumQuantityByItemQuery = `SELECT COALESCE(SUM(quantity), 0) FROM orders WHERE item_id = $1 AND status = $2`
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
	now    func() time.Time
}

// NewRepository creates a new order repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) OrderRepository {
	return &repository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// Append appends an order to the ledger.
func (r *repository) Append(ctx context.Context, order *Order) (string, error) {
	if order.ID == "" {
		order.ID = ulid.Make().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = r.now().UTC()
	}

	cmd, err := r.db.Exec(ctx, appendQuery,
		order.ID,
		order.BuyerID,
		order.ItemID,
		order.ItemName,
		order.Quantity,
		order.Price,
		order.TotalAmount,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		return "", errors.TracerFromError(err)
	}

	r.logger.DebugContext(ctx, "Appended order", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	}, logger.Field{
		Key:   "orderId",
		Value: order.ID,
	})

	return order.ID, nil
}

// GetByID gets an order by ID.
func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	order := &Order{}
	err := r.db.QueryRow(ctx, getByIDQuery, id).Scan(
		&order.ID,
		&order.BuyerID,
		&order.ItemID,
		&order.ItemName,
		&order.Quantity,
		&order.Price,
		&order.TotalAmount,
		&order.Status,
		&order.CreatedAt,
	)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	return order, nil
}

// SumQuantityByItem sums the quantity of completed orders for itemID.
func (r *repository) SumQuantityByItem(ctx context.Context, itemID string) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, sumQuantityByItemQuery, itemID, OrderStatusCompleted).Scan(&total); err != nil {
		return 0, errors.TracerFromError(err)
	}
	return total, nil
}
