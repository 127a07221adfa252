package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	mockPg "github.com/muhammadchandra19/flashsale/pkg/postgresql/mock"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_Append(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		order    *Order
		mockFn   func(pg *mockPg.MockPostgreSQLClient, o *Order)
		assertFn func(t *testing.T, o *Order, id string, err error)
	}{
		{
			name: "keeps the given id",
			order: &Order{
				ID:          "01HZX3J8Q6V7R9T2W4Y6A8C0E2",
				BuyerID:     "buyer-1",
				ItemID:      "item-1",
				ItemName:    "iPhone 15 Pro",
				Quantity:    2,
				Price:       999,
				TotalAmount: 1998,
				Status:      OrderStatusCompleted,
				CreatedAt:   now,
			},
			mockFn: func(pg *mockPg.MockPostgreSQLClient, o *Order) {
				pg.EXPECT().
					Exec(ctx, appendQuery, o.ID, o.BuyerID, o.ItemID, o.ItemName, o.Quantity, o.Price, o.TotalAmount, o.Status, o.CreatedAt).
					Return(pgconn.NewCommandTag("INSERT 0 1"), nil)
			},
			assertFn: func(t *testing.T, o *Order, id string, err error) {
				require.NoError(t, err)
				assert.Equal(t, "01HZX3J8Q6V7R9T2W4Y6A8C0E2", id)
			},
		},
		{
			name: "generates id and timestamp",
			order: &Order{
				BuyerID:     "buyer-1",
				ItemID:      "item-1",
				ItemName:    "AirPods Pro",
				Quantity:    1,
				Price:       249,
				TotalAmount: 249,
				Status:      OrderStatusCompleted,
			},
			mockFn: func(pg *mockPg.MockPostgreSQLClient, o *Order) {
				pg.EXPECT().
					Exec(ctx, appendQuery, gomock.Any(), o.BuyerID, o.ItemID, o.ItemName, o.Quantity, o.Price, o.TotalAmount, o.Status, now).
					Return(pgconn.NewCommandTag("INSERT 0 1"), nil)
			},
			assertFn: func(t *testing.T, o *Order, id string, err error) {
				require.NoError(t, err)
				_, parseErr := ulid.ParseStrict(id)
				assert.NoError(t, parseErr)
				assert.Equal(t, id, o.ID)
				assert.Equal(t, now, o.CreatedAt)
			},
		},
		{
			name: "error",
			order: &Order{
				ID:        "dup",
				CreatedAt: now,
				Status:    OrderStatusCompleted,
			},
			mockFn: func(pg *mockPg.MockPostgreSQLClient, o *Order) {
				pg.EXPECT().
					Exec(ctx, appendQuery, o.ID, o.BuyerID, o.ItemID, o.ItemName, o.Quantity, o.Price, o.TotalAmount, o.Status, o.CreatedAt).
					Return(pgconn.CommandTag{}, errors.New("duplicate key"))
			},
			assertFn: func(t *testing.T, o *Order, id string, err error) {
				assert.EqualError(t, err, "duplicate key")
				assert.Empty(t, id)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			tc.mockFn(pg, tc.order)

			repo := &repository{db: pg, logger: logger.NewNop(), now: func() time.Time { return now }}
			id, err := repo.Append(ctx, tc.order)
			tc.assertFn(t, tc.order, id, err)
		})
	}
}

func TestOrder_GetByID(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name     string
		scanErr  error
		assertFn func(t *testing.T, o *Order, err error)
	}{
		{
			name: "found",
			assertFn: func(t *testing.T, o *Order, err error) {
				require.NoError(t, err)
				assert.Equal(t, "order-1", o.ID)
				assert.Equal(t, int64(3), o.Quantity)
				assert.Equal(t, OrderStatusCompleted, o.Status)
			},
		},
		{
			name:    "absent",
			scanErr: pgx.ErrNoRows,
			assertFn: func(t *testing.T, o *Order, err error) {
				assert.NoError(t, err)
				assert.Nil(t, o)
			},
		},
		{
			name:    "error",
			scanErr: errors.New("error"),
			assertFn: func(t *testing.T, o *Order, err error) {
				assert.Error(t, err)
				assert.Nil(t, o)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			pg := mockPg.NewMockPostgreSQLClient(ctrl)
			row := mockPg.NewMockRowInterface(ctrl)

			pg.EXPECT().QueryRow(ctx, getByIDQuery, "order-1").Return(row)
			targets := make([]any, 9)
			for i := range targets {
				targets[i] = gomock.Any()
			}
			row.EXPECT().Scan(targets...).DoAndReturn(func(dest ...any) error {
				if tc.scanErr != nil {
					return tc.scanErr
				}
				*dest[0].(*string) = "order-1"
				*dest[4].(*int64) = 3
				*dest[7].(*Status) = OrderStatusCompleted
				return nil
			})

			repo := NewRepository(pg, logger.NewNop())
			o, err := repo.GetByID(ctx, "order-1")
			tc.assertFn(t, o, err)
		})
	}
}

func TestOrder_SumQuantityByItem(t *testing.T) {
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pg := mockPg.NewMockPostgreSQLClient(ctrl)
	row := mockPg.NewMockRowInterface(ctrl)

	pg.EXPECT().QueryRow(ctx, sumQuantityByItemQuery, "item-1", OrderStatusCompleted).Return(row)
	row.EXPECT().Scan(gomock.Any()).DoAndReturn(func(dest ...any) error {
		*dest[0].(*int64) = 10
		return nil
	})

	repo := NewRepository(pg, logger.NewNop())
	total, err := repo.SumQuantityByItem(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), total)
}
