package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/muhammadchandra19/flashsale/pkg/config"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/postgresql"
	mockPg "github.com/muhammadchandra19/flashsale/pkg/postgresql/mock"
	redis_mock "github.com/muhammadchandra19/flashsale/pkg/redis/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrap_Init(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg, err := config.Load[config.Config]()
	require.NoError(t, err)

	b := &Bootstrap{}
	boot := b.Init(BootstrapConfig{
		Config:     cfg,
		Redis:      redis_mock.NewMockClient(ctrl),
		PostgreSQL: mockPg.NewMockPostgreSQLClient(ctrl),
		Logger:     logger.NewNop(),
	})

	assert.NotNil(t, boot.Repository.ItemRepository)
	assert.NotNil(t, boot.Repository.OrderRepository)
	assert.NotNil(t, boot.Cache.StockCache)
	assert.NotNil(t, boot.Cache.Limiter)
	assert.NotNil(t, boot.Usecase.ReservationUsecase)
	assert.NotNil(t, boot.Usecase.StockUsecase)
	assert.NotNil(t, boot.HTTP.Router)
	assert.NotNil(t, boot.Publisher, "falls back to a no-op publisher")
}

func TestBootstrap_Readiness(t *testing.T) {
	testCases := []struct {
		name       string
		redisErr   error
		pgStatus   string
		wantStatus int
	}{
		{
			name:       "ready",
			pgStatus:   "healthy",
			wantStatus: http.StatusOK,
		},
		{
			name:       "redis down",
			redisErr:   errors.New("connection refused"),
			pgStatus:   "healthy",
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "postgresql down",
			pgStatus:   "unhealthy",
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			redisClient := redis_mock.NewMockClient(ctrl)
			pgClient := mockPg.NewMockPostgreSQLClient(ctrl)
			redisClient.EXPECT().Ping(gomock.Any()).Return(tc.redisErr)
			pgClient.EXPECT().CheckHealth(gomock.Any()).DoAndReturn(func(context.Context) *postgresql.HealthCheck {
				return &postgresql.HealthCheck{Status: tc.pgStatus, Error: "ping failed"}
			})

			cfg, err := config.Load[config.Config]()
			require.NoError(t, err)

			b := &Bootstrap{}
			boot := b.Init(BootstrapConfig{
				Config:     cfg,
				Redis:      redisClient,
				PostgreSQL: pgClient,
				Logger:     logger.NewNop(),
			})

			rec := httptest.NewRecorder()
			boot.HTTP.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
