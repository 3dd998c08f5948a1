package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"pressroom/config"
	"pressroom/internal/api"
	"pressroom/internal/db"
	"pressroom/internal/mq"
	redisclient "pressroom/internal/redis"
	"pressroom/internal/repository"
	"pressroom/internal/schema"
	"pressroom/internal/service"
	"pressroom/internal/widget"
)

func main() {
	// 1. Load config
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Run schema migration. The batch is idempotent, so it runs
	// unconditionally on every start.
	migrator := schema.NewMigrator(dbConn, logger)
	ctx := context.Background()
	if err := migrator.Bootstrap(ctx); err != nil {
		logger.Fatal("schema bootstrap failed", zap.Error(err))
	}
	report := migrator.Apply(ctx, schema.ArticleFieldSteps())
	if report.Failed() {
		logger.Fatal("schema migration failed", zap.Strings("report", report.Lines()))
	}
	logger.Info("schema migration done", zap.Strings("report", report.Lines()))

	// 4. Init Redis
	rdb := redisclient.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	// 5. Init RabbitMQ Producer
	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		log.Fatalf("failed to init producer: %v", err)
	}
	defer producer.Close()

	// 6. Init repositories
	articleRepo := repository.NewArticleRepository(dbConn)
	subscriberRepo := repository.NewSubscriberRepository(dbConn)
	adminRepo := repository.NewAdminRepository(dbConn)

	// 7. Init services
	registry := widget.DefaultRegistry()
	contentService := service.NewContentService(articleRepo, registry, rdb, producer, logger)
	subscriberService := service.NewSubscriberService(subscriberRepo, producer, logger)
	authService := service.NewAuthService(adminRepo, cfg.JWT.Secret)

	if err := authService.EnsureAdmin(ctx, os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		logger.Fatal("admin seeding failed", zap.Error(err))
	}

	// 8. Init handlers
	authHandler := api.NewAuthHandler(authService)
	articleHandler := api.NewArticleHandler(contentService)
	subscriberHandler := api.NewSubscriberHandler(subscriberService)
	subscriberQueryHandler := api.NewSubscriberQueryHandler(subscriberRepo)
	migrationHandler := api.NewMigrationHandler(migrator)

	// 9. Init router
	router := api.NewRouter(authHandler, articleHandler, subscriberHandler, subscriberQueryHandler, migrationHandler, cfg.JWT.Secret)

	// 10. Run server
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("server start failed", zap.Error(err))
	}
}
