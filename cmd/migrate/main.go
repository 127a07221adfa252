package main

import (
	"context"
	"flag"

	"github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/migrations"
	"github.com/muhammadchandra19/flashsale/pkg/config"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/postgresql"
	"go.uber.org/zap"
)

type migrateConfig struct {
	App        config.AppConfig  `envPrefix:"APP_"`
	PostgreSQL postgresql.Config `envPrefix:"POSTGRES_"`
}

func main() {
	var (
		direction = flag.String("direction", "up", "Migration direction: up or down")
		steps     = flag.Int("steps", 0, "Number of steps to migrate (0 = all)")
	)
	flag.Parse()

	ctx := context.Background()

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load[migrateConfig]()
	if err != nil {
		log.GetZap().Fatal("Failed to load config", zap.Error(err))
	}

	pgClient, err := postgresql.NewClient(ctx, cfg.PostgreSQL)
	if err != nil {
		log.GetZap().Fatal("Failed to initialize PostgreSQL client", zap.Error(err))
	}
	defer pgClient.Close()

	runner := migrations.NewRunner(pgClient, log)

	switch *direction {
	case "up":
		err = runner.MigrateUp(ctx, *steps)
	case "down":
		err = runner.MigrateDown(ctx, *steps)
	default:
		log.GetZap().Fatal("Invalid direction, use 'up' or 'down'", zap.String("direction", *direction))
	}
	if err != nil {
		log.GetZap().Fatal("Migration failed", zap.String("direction", *direction), zap.Error(err))
	}

	log.Info("Migration completed", logger.Field{Key: "direction", Value: *direction})
}
