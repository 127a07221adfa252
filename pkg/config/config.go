package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/muhammadchandra19/flashsale/pkg/postgresql"
	"github.com/muhammadchandra19/flashsale/pkg/redis"
)

// Config represents the application configuration.
type Config struct {
	App         AppConfig         `envPrefix:"APP_"`
	HTTP        HTTPConfig        `envPrefix:"HTTP_"`
	GRPC        GRPCConfig        `envPrefix:"GRPC_"`
	Redis       redis.Config      `envPrefix:"REDIS_"`
	PostgreSQL  postgresql.Config `envPrefix:"POSTGRES_"`
	RateLimit   RateLimitConfig   `envPrefix:"RATE_LIMIT_"`
	Stock       StockConfig       `envPrefix:"STOCK_"`
	OrderEvents OrderEventsConfig `envPrefix:"ORDER_EVENTS_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"flashsale"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// HTTPConfig configures the public HTTP listener.
type HTTPConfig struct {
	Port            int           `env:"PORT" envDefault:"3000"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Addr returns the listen address.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GRPCConfig configures the gRPC health listener.
type GRPCConfig struct {
	Port        int    `env:"PORT" envDefault:"7777"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"flashsale.v1.Reservation"`
}

// Addr returns the listen address.
func (c GRPCConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// RateLimitConfig holds the purchase and general policies.
type RateLimitConfig struct {
	PurchaseWindow      time.Duration `env:"PURCHASE_WINDOW" envDefault:"60s"`
	PurchaseMaxRequests int64         `env:"PURCHASE_MAX_REQUESTS" envDefault:"5"`
	GeneralWindow       time.Duration `env:"GENERAL_WINDOW" envDefault:"60s"`
	GeneralMaxRequests  int64         `env:"GENERAL_MAX_REQUESTS" envDefault:"10"`
}

// StockConfig configures the stock cache.
type StockConfig struct {
	// CacheTTL applies to entries loaded by stock reads. Entries reseeded during a
	// purchase never expire.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"300s"`
}

// OrderEventsConfig configures the order.completed publisher. No events are
// published when Brokers is empty.
type OrderEventsConfig struct {
	Brokers      []string      `env:"BROKERS" envSeparator:","`
	Topic        string        `env:"TOPIC" envDefault:"flashsale.order.completed"`
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"50ms"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"5s"`
}

// Enabled reports whether any broker is configured.
func (c OrderEventsConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// Load reads T from the environment, loading a .env file first when present.
func Load[T any]() (*T, error) {
	_ = godotenv.Load()

	cfg := new(T)
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any]() *T {
	cfg, err := Load[T]()
	if err != nil {
		panic(err)
	}
	return cfg
}
