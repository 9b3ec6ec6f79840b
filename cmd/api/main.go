package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/core/auth"
	"storefront/internal/core/cache"
	"storefront/internal/core/config"
	"storefront/internal/core/database"
	"storefront/internal/core/logger"
	"storefront/internal/core/server"
	orderadapter "storefront/internal/features/orders/adapters"
	orderhandler "storefront/internal/features/orders/handler"
	"storefront/internal/features/orders/ports"
	orderservice "storefront/internal/features/orders/service"
	settingsadapter "storefront/internal/features/settings/adapters"
	settingshandler "storefront/internal/features/settings/handler"
	settingsservice "storefront/internal/features/settings/service"
	statshandler "storefront/internal/features/stats/handler"
	statsservice "storefront/internal/features/stats/service"

	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// @title Storefront API
// @version 1.0
// @description Order placement, status management and dashboard statistics for the storefront.
// @contact.name API Support
// @contact.email support@storefront.example
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx := context.Background()

	// Document store
	mongoClient, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		l.Fatal("MongoDB connection failed", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())
	l.Info("MongoDB connection verified", zap.String("database", cfg.Mongo.Database))

	orderRepo := orderadapter.NewMongoOrderRepository(database.OrdersCollection(mongoClient, cfg.Mongo))
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		l.Fatal("Failed to create order indexes", zap.Error(err))
	}

	// Key-value store
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Redis configuration invalid", zap.Error(err))
	}
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	// Order events
	var events ports.EventPublisher = orderadapter.NopPublisher{}
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		events = orderadapter.NewKafkaPublisher(brokers, cfg.Kafka.Topic)
		l.Info("Publishing order events", zap.Strings("brokers", brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	defer events.Close()

	// Services & Handlers
	settingsSvc := settingsservice.NewSettingsService(settingsadapter.NewRedisSettingsRepository(redisCache))
	settingsHdl := settingshandler.NewSettingsHandler(settingsSvc)

	orderSvc := orderservice.NewOrderService(
		orderRepo,
		orderadapter.NewRedisIdempotencyStore(redisCache, cfg.Redis.IdempotencyTTL),
		events,
		orderadapter.NewXLSXExporter(),
		settingsSvc,
	)
	orderHdl := orderhandler.NewOrderHandler(orderSvc)

	statsHdl := statshandler.NewStatsHandler(statsservice.NewStatsService(orderRepo))

	srv := server.New(cfg)
	srv.AddHealthCheck("redis", redisCache.Ping)
	srv.AddHealthCheck("mongo", func(ctx context.Context) error {
		return mongoClient.Ping(ctx, readpref.Primary())
	})

	// Register Routes
	authenticated := auth.Middleware([]byte(cfg.Auth.JWTSecret))
	admin := auth.RequireAdmin()

	srv.App.Get("/settings", settingsHdl.GetSettings)

	orders := srv.App.Group("/orders", authenticated)
	orders.Post("/", server.OrderLimiter(cfg.OrderRateLimit), orderHdl.CreateOrder)
	orders.Get("/user", orderHdl.ListMyOrders)
	orders.Get("/", admin, orderHdl.ListOrders)
	orders.Get("/export", admin, orderHdl.ExportOrders)
	orders.Get("/:id", orderHdl.GetOrder)
	orders.Put("/:id/status", admin, orderHdl.UpdateOrderStatus)
	orders.Delete("/:id", admin, orderHdl.DeleteOrder)

	adminGroup := srv.App.Group("/admin", authenticated, admin)
	adminGroup.Get("/orders/stats", statsHdl.GetStats)
	adminGroup.Put("/settings", settingsHdl.UpdateSettings)

	go func() {
		if err := srv.Run(); err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("Graceful shutdown failed", zap.Error(err))
	}
}
