package config

import (
	"testing"
	"time"

	"github.com/muhammadchandra19/flashsale/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load[Config]()
	require.NoError(t, err)

	assert.Equal(t, "flashsale", cfg.App.Name)
	assert.Equal(t, ":3000", cfg.HTTP.Addr())
	assert.Equal(t, ":7777", cfg.GRPC.Addr())
	assert.Equal(t, "flashsale.v1.Reservation", cfg.GRPC.ServiceName)

	assert.Equal(t, 60*time.Second, cfg.RateLimit.PurchaseWindow)
	assert.Equal(t, int64(5), cfg.RateLimit.PurchaseMaxRequests)
	assert.Equal(t, 60*time.Second, cfg.RateLimit.GeneralWindow)
	assert.Equal(t, int64(10), cfg.RateLimit.GeneralMaxRequests)

	assert.Equal(t, 300*time.Second, cfg.Stock.CacheTTL)
	assert.False(t, cfg.OrderEvents.Enabled())

	assert.Equal(t, []string{"localhost:6379"}, cfg.Redis.Addrs)
	assert.Equal(t, redis.Standalone, cfg.Redis.Mode)
	assert.Equal(t, "flashsale", cfg.PostgreSQL.Database)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("RATE_LIMIT_PURCHASE_MAX_REQUESTS", "2")
	t.Setenv("RATE_LIMIT_GENERAL_WINDOW", "1s")
	t.Setenv("STOCK_CACHE_TTL", "1m")
	t.Setenv("ORDER_EVENTS_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("REDIS_ADDRS", "redis-1:6379,redis-2:6379")
	t.Setenv("POSTGRES_HOST", "db")

	cfg, err := Load[Config]()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr())
	assert.Equal(t, int64(2), cfg.RateLimit.PurchaseMaxRequests)
	assert.Equal(t, time.Second, cfg.RateLimit.GeneralWindow)
	assert.Equal(t, time.Minute, cfg.Stock.CacheTTL)
	assert.True(t, cfg.OrderEvents.Enabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.OrderEvents.Brokers)
	assert.Equal(t, []string{"redis-1:6379", "redis-2:6379"}, cfg.Redis.Addrs)
	assert.Equal(t, "db", cfg.PostgreSQL.Host)
}

func TestMustLoad_PanicsOnInvalidValue(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")

	assert.Panics(t, func() {
		MustLoad[Config]()
	})
}
