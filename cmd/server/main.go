package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/muhammadchandra19/flashsale/internal/bootstrap"
	orderevent "github.com/muhammadchandra19/flashsale/internal/infrastructure/kafka/order-event"
	"github.com/muhammadchandra19/flashsale/pkg/config"
	"github.com/muhammadchandra19/flashsale/pkg/grpclib/health"
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

	var publisher orderevent.Publisher
	if cfg.OrderEvents.Enabled() {
		publisher = orderevent.NewPublisher(orderevent.Config{
			Brokers:      cfg.OrderEvents.Brokers,
			Topic:        cfg.OrderEvents.Topic,
			BatchTimeout: cfg.OrderEvents.BatchTimeout,
			WriteTimeout: cfg.OrderEvents.WriteTimeout,
		}, log)
		defer publisher.Close()
	}

	b := &bootstrap.Bootstrap{}
	boot := b.Init(bootstrap.BootstrapConfig{
		Config:     cfg,
		Redis:      redisClient,
		PostgreSQL: pgClient,
		Publisher:  publisher,
		Logger:     log,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      boot.HTTP.Router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	healthServer := health.NewServer(cfg.GRPC.ServiceName, log)
	lis, err := net.Listen("tcp", cfg.GRPC.Addr())
	if err != nil {
		log.GetZap().Fatal("Failed to listen for gRPC", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := healthServer.Serve(lis); err != nil {
			log.Error(err, logger.Field{Key: "server", Value: "grpc"})
		}
	}()

	go func() {
		log.Info("HTTP server listening", logger.Field{Key: "addr", Value: httpServer.Addr})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, logger.Field{Key: "server", Value: "http"})
			quit <- syscall.SIGTERM
		}
	}()

	healthServer.MarkServing()

	<-quit
	log.Info("Shutting down")

	healthServer.MarkNotServing()

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "server", Value: "http"})
	}
	healthServer.Stop()

	log.Info("Server stopped")
}
