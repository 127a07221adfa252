package item

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/postgresql"
)

const (
	itemColumns = `id, name, description, price, stock, image_url, created_at, updated_at`

	findByIDQuery = `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	decrementStockQuery = `UPDATE items SET stock = stock - $2, updated_at = NOW() ` +
		`WHERE id = $1 AND stock >= $2 RETURNING ` + itemColumns

	upsertQuery = `INSERT INTO items (id, name, description, price, stock, image_url) ` +
		`VALUES ($1, $2, $3, $4, $5, $6) ` +
		`ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, description = EXCLUDED.description, ` +
		`price = EXCLUDED.price, stock = EXCLUDED.stock, image_url = EXCLUDED.image_url, updated_at = NOW()`

	listQuery = `SELECT ` + itemColumns + ` FROM items ORDER BY id`
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

// NewRepository creates a new item repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) ItemRepository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// FindByID gets an item by ID.
func (r *repository) FindByID(ctx context.Context, id string) (*Item, error) {
	item := &Item{}
	err := r.db.QueryRow(ctx, findByIDQuery, id).Scan(item.scanTargets()...)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	return item, nil
}

// DecrementStock runs the conditional decrement in a single statement so
// concurrent callers can never drive stock below zero.
func (r *repository) DecrementStock(ctx context.Context, id string, qty int64) (*Item, error) {
	item := &Item{}
	err := r.db.QueryRow(ctx, decrementStockQuery, id, qty).Scan(item.scanTargets()...)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	return item, nil
}

// Upsert inserts an item or overwrites every mutable column of an existing one.
func (r *repository) Upsert(ctx context.Context, item *Item) error {
	cmd, err := r.db.Exec(ctx, upsertQuery,
		item.ID,
		item.Name,
		item.Description,
		item.Price,
		item.Stock,
		item.ImageURL,
	)
	if err != nil {
		return errors.TracerFromError(err)
	}

	r.logger.Info("Upserted item", logger.Field{
		Key:   "commandTag",
		Value: cmd.String(),
	})

	return nil
}

// List lists every item ordered by ID.
func (r *repository) List(ctx context.Context) ([]*Item, error) {
	rows, err := r.db.Query(ctx, listQuery)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		item := &Item{}
		if err := rows.Scan(item.scanTargets()...); err != nil {
			return nil, errors.TracerFromError(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return items, nil
}
