package main

import (
	"context"

	"github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/item"
	"github.com/muhammadchandra19/flashsale/internal/infrastructure/redis/stock"
	stockUc "github.com/muhammadchandra19/flashsale/internal/usecase/stock"
	"github.com/muhammadchandra19/flashsale/pkg/config"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/postgresql"
	"github.com/muhammadchandra19/flashsale/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load[config.Config]()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	redisClient := redis.NewClient(log, &cfg.Redis)
	if err := redisClient.Connect(ctx); err != nil {
		log.GetZap().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Disconnect(ctx)

	pgClient, err := postgresql.NewClient(ctx, cfg.PostgreSQL)
	if err != nil {
		log.GetZap().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgClient.Close()

	itemRepository := item.NewRepository(pgClient, log)
	s := &seeder{
		db:             pgClient,
		itemRepository: itemRepository,
		stockUsecase:   stockUc.NewUsecase(itemRepository, stock.NewCache(redisClient, log), cfg.Stock.CacheTTL, log),
		logger:         log,
	}

	if err := s.Run(ctx, demoItems()); err != nil {
		log.GetZap().Fatal("Seed failed", zap.Error(err))
	}
	log.Info("Seed completed")
}
