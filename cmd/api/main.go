package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"

	apporder "salesorders/internal/application/order"
	"salesorders/internal/application/orderline"
	"salesorders/internal/application/stock"
	"salesorders/internal/config"
	"salesorders/internal/domain/repository"
	"salesorders/internal/infrastructure/cache"
	ginserver "salesorders/internal/infrastructure/http/gin"
	kafkainfra "salesorders/internal/infrastructure/messaging/kafka"
	"salesorders/internal/infrastructure/persistence/postgres"
	"salesorders/internal/interfaces/http/handler"
	"salesorders/internal/interfaces/http/router"
	"salesorders/pkg/lock"
	"salesorders/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	logg, err := logger.NewZapLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		logg.Fatal("postgres connection failed", logger.Error(err))
	}
	defer pool.Close()

	orderRepo := postgres.NewOrderRepository(pool)
	lineRepo := postgres.NewOrderLineRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	var productRepo repository.ProductRepository = postgres.NewProductRepository(pool)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		productRepo = cache.NewCachedProductRepository(productRepo, client, cfg.Redis.CacheTTL)
		logg.Info("product cache enabled", logger.String("addr", cfg.Redis.Addr))
	}

	producer, err := kafkainfra.NewStatusEventProducer(cfg.Kafka, logg)
	if err != nil {
		logg.Fatal("kafka producer init failed", logger.Error(err))
	}
	defer producer.Close(ctx)

	// One lock registry shared by both services; they serialize on the
	// same order ids.
	locks := lock.NewKeyed()

	orderService := apporder.NewService(orderRepo, lineRepo, clientRepo, userRepo, locks, producer, logg)
	lineService := orderline.NewService(orderRepo, lineRepo, productRepo, stock.NewValidator(productRepo), locks, logg)

	consumer := kafkainfra.NewPaymentConsumer(cfg.Kafka, orderService, logg)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logg.Warn("payment consumer stopped", logger.Error(err))
		}
	}()
	defer consumer.Close()

	engine := ginserver.NewEngine()
	router.RegisterRoutes(engine,
		handler.NewOrderHandler(orderService),
		handler.NewOrderLineHandler(lineService),
		handler.NewProductHandler(productRepo),
	)

	server := ginserver.NewServer(cfg.Server, engine)
	if err := server.Run(); err != nil {
		logg.Fatal("server run failed", logger.Error(err))
	}
}
