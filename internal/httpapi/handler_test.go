package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/muhammadchandra19/flashsale/internal/domain/reservation"
	reservationMock "github.com/muhammadchandra19/flashsale/internal/domain/reservation/mock"
	stockMock "github.com/muhammadchandra19/flashsale/internal/domain/stock/mock"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/order"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/redis/ratelimit"
	pkgerrors "github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (http.Handler, *reservationMock.MockUsecase, *stockMock.MockUsecase) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	reservationUc := reservationMock.NewMockUsecase(ctrl)
	stockUc := stockMock.NewMockUsecase(ctrl)

	h := NewHandler(reservationUc, stockUc, logger.NewNop())
	h.now = func() time.Time { return fixedNow }

	return NewRouter(h, healthcheck.HealthCheck{}, logger.NewNop()), reservationUc, stockUc
}

func TestHandler_Purchase(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		headers  map[string]string
		mockFn   func(uc *reservationMock.MockUsecase)
		assertFn func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "success",
			body: `{"buyerId":"buyer-1","itemId":"item-1","quantity":2}`,
			headers: map[string]string{
				"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
			},
			mockFn: func(uc *reservationMock.MockUsecase) {
				uc.EXPECT().Reserve(gomock.Any(), reservation.Request{
					BuyerID: "buyer-1", ItemID: "item-1", Quantity: 2, ClientIP: "203.0.113.7",
				}).Return(&reservation.Result{
					Status:         reservation.StatusPurchased,
					Order:          &order.Order{ID: "01JGZ0000000000000000000AA"},
					RemainingStock: 8,
				}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.JSONEq(t, `{"success":true,"message":"Purchase successful","orderId":"01JGZ0000000000000000000AA","remainingStock":8}`, rec.Body.String())
			},
		},
		{
			name: "legacy aliases and default quantity",
			body: `{"userId":"buyer-1","productId":"item-1"}`,
			mockFn: func(uc *reservationMock.MockUsecase) {
				uc.EXPECT().Reserve(gomock.Any(), reservation.Request{
					BuyerID: "buyer-1", ItemID: "item-1", Quantity: 1, ClientIP: util.UnknownClientIP,
				}).Return(&reservation.Result{
					Status: reservation.StatusPurchased,
					Order:  &order.Order{ID: "id"},
				}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusOK, rec.Code)
			},
		},
		{
			name:   "malformed body",
			body:   `{"buyerId":`,
			mockFn: func(uc *reservationMock.MockUsecase) {},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.JSONEq(t, `{"success":false,"message":"Invalid request body"}`, rec.Body.String())
			},
		},
		{
			name: "missing fields",
			body: `{"itemId":"item-1"}`,
			mockFn: func(uc *reservationMock.MockUsecase) {
				uc.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(&reservation.Result{
					Status: reservation.StatusInvalid,
					Violations: pkgerrors.NewBaseError(
						pkgerrors.NewErrorDetails("buyerId is required", string(pkgerrors.MissingRequiredFieldError), "buyerId"),
					),
				}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.JSONEq(t, `{"success":false,"message":"Missing required fields"}`, rec.Body.String())
			},
		},
		{
			name: "invalid quantity",
			body: `{"buyerId":"buyer-1","itemId":"item-1","quantity":0}`,
			mockFn: func(uc *reservationMock.MockUsecase) {
				uc.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(&reservation.Result{
					Status: reservation.StatusInvalid,
					Violations: pkgerrors.NewBaseError(
						pkgerrors.NewErrorDetails("quantity must be at least 1", string(pkgerrors.InvalidQuantityError), "quantity"),
					),
				}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.JSONEq(t, `{"success":false,"message":"Quantity must be at least 1"}`, rec.Body.String())
			},
		},
		{
			name: "rate limited",
			body: `{"buyerId":"buyer-1","itemId":"item-1"}`,
			mockFn: func(uc *reservationMock.MockUsecase) {
				uc.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(&reservation.Result{
					Status: reservation.StatusRateLimited,
					Admission: &ratelimit.Admission{
						ResetTime: fixedNow.Add(41*time.Second + 200*time.Millisecond),
					},
				}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusTooManyRequests, rec.Code)
				assert.Equal(t, "42", rec.Header().Get("Retry-After"))
				assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
				assert.Equal(t, "2025-01-01T12:00:41.200Z", rec.Header().Get("X-RateLimit-Reset"))
				assert.JSONEq(t, `{"success":false,"message":"Rate limit exceeded"}`, rec.Body.String())
			},
		},
		{
			name: "rate limited with reset in the past",
			body: `{"buyerId":"buyer-1","itemId":"item-1"}`,
			mockFn: func(uc *reservationMock.MockUsecase) {
				uc.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(&reservation.Result{
					Status:    reservation.StatusRateLimited,
					Admission: &ratelimit.Admission{ResetTime: fixedNow.Add(-time.Second)},
				}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusTooManyRequests, rec.Code)
				assert.Equal(t, "0", rec.Header().Get("Retry-After"))
			},
		},
		{
			name: "item not found",
			body: `{"buyerId":"buyer-1","itemId":"missing"}`,
			mockFn: func(uc *reservationMock.MockUsecase) {
				uc.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(&reservation.Result{Status: reservation.StatusItemNotFound}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusNotFound, rec.Code)
				assert.JSONEq(t, `{"success":false,"message":"Item not found"}`, rec.Body.String())
			},
		},
		{
			name: "out of stock",
			body: `{"buyerId":"buyer-1","itemId":"item-1"}`,
			mockFn: func(uc *reservationMock.MockUsecase) {
				uc.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(&reservation.Result{Status: reservation.StatusOutOfStock}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusConflict, rec.Code)
				assert.JSONEq(t, `{"success":false,"message":"Out of stock"}`, rec.Body.String())
			},
		},
		{
			name: "cold cache",
			body: `{"buyerId":"buyer-1","itemId":"item-1"}`,
			mockFn: func(uc *reservationMock.MockUsecase) {
				uc.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(&reservation.Result{Status: reservation.StatusRetry}, nil)
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
				assert.JSONEq(t, `{"success":false,"message":"Please retry"}`, rec.Body.String())
			},
		},
		{
			name: "purchase failed after compensation",
			body: `{"buyerId":"buyer-1","itemId":"item-1"}`,
			mockFn: func(uc *reservationMock.MockUsecase) {
				uc.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(nil,
					pkgerrors.NewErrorDetails("Order append failed", string(pkgerrors.PurchaseFailedError), "order"))
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusInternalServerError, rec.Code)
				assert.JSONEq(t, `{"success":false,"message":"Purchase failed, please try again"}`, rec.Body.String())
			},
		},
		{
			name: "infrastructure failure",
			body: `{"buyerId":"buyer-1","itemId":"item-1"}`,
			mockFn: func(uc *reservationMock.MockUsecase) {
				uc.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(nil, pkgerrors.TracerFromError(errors.New("redis down")))
			},
			assertFn: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.Equal(t, http.StatusInternalServerError, rec.Code)
				assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, rec.Body.String())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, reservationUc, _ := newTestServer(t)
			tc.mockFn(reservationUc)

			req := httptest.NewRequest(http.MethodPost, "/api/purchase", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			tc.assertFn(t, rec)
		})
	}
}

func TestHandler_GetStock(t *testing.T) {
	testCases := []struct {
		name     string
		mockFn   func(uc *stockMock.MockUsecase)
		wantCode int
		wantBody string
	}{
		{
			name: "found",
			mockFn: func(uc *stockMock.MockUsecase) {
				uc.EXPECT().GetStock(gomock.Any(), "item-1").Return(int64(7), nil)
			},
			wantCode: http.StatusOK,
			wantBody: `{"itemId":"item-1","stock":7}`,
		},
		{
			name: "not found",
			mockFn: func(uc *stockMock.MockUsecase) {
				uc.EXPECT().GetStock(gomock.Any(), "item-1").Return(int64(0),
					pkgerrors.NewErrorDetails("Item not found", string(pkgerrors.ItemNotFoundError), "itemId"))
			},
			wantCode: http.StatusNotFound,
			wantBody: `{"success":false,"message":"Item not found"}`,
		},
		{
			name: "failure",
			mockFn: func(uc *stockMock.MockUsecase) {
				uc.EXPECT().GetStock(gomock.Any(), "item-1").Return(int64(0), errors.New("redis down"))
			},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"success":false,"message":"Internal server error"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router, _, stockUc := newTestServer(t)
			tc.mockFn(stockUc)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items/item-1/stock", nil))

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
		})
	}
}

func TestRouter_Middleware(t *testing.T) {
	t.Run("request id is echoed", func(t *testing.T) {
		router, _, stockUc := newTestServer(t)
		stockUc.EXPECT().GetStock(gomock.Any(), "item-1").DoAndReturn(func(ctx context.Context, _ string) (int64, error) {
			assert.Equal(t, "req-123", util.GetRequestID(ctx))
			return 1, nil
		})

		req := httptest.NewRequest(http.MethodGet, "/api/items/item-1/stock", nil)
		req.Header.Set(util.RequestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, "req-123", rec.Header().Get(util.RequestIDHeader))
	})

	t.Run("request id is generated", func(t *testing.T) {
		router, _, _ := newTestServer(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(util.RequestIDHeader))
	})

	t.Run("panics are recovered", func(t *testing.T) {
		router, reservationUc, _ := newTestServer(t)
		reservationUc.EXPECT().Reserve(gomock.Any(), gomock.Any()).DoAndReturn(
			func(context.Context, reservation.Request) (*reservation.Result, error) {
				panic("boom")
			})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/purchase", strings.NewReader(`{"buyerId":"b","itemId":"i"}`)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		router, _, _ := newTestServer(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
