package main

// @title POI Mashup API
// @version 1.0.0
// @description Сервис синхронизации точек интереса (POI) из метаданных элементов контента в карты и сборки мэшап-карт по нескольким элементам.
// @description
// @description Основные возможности:
// @description - Разбор значений полей метаданных и геокодирование адресов
// @description - Создание, обновление и удаление карт элементов по событиям хоста
// @description - Мэшап: POI карт всех, текущих или отобранных запросом элементов

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/poi-mashup/docs"
	"github.com/poi-mashup/internal/config"
	httpDelivery "github.com/poi-mashup/internal/delivery/http"
	"github.com/poi-mashup/internal/delivery/http/handler"
	"github.com/poi-mashup/internal/infrastructure/mapbox"
	"github.com/poi-mashup/internal/pkg/logger"
	"github.com/poi-mashup/internal/repository/cache"
	"github.com/poi-mashup/internal/repository/postgres"
	"github.com/poi-mashup/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "poi-mashup-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting POI Mashup API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("meta_key", cfg.Sync.MetaKey),
		zap.Bool("meta_sync_save", cfg.Sync.MetaSyncSave),
		zap.Bool("meta_sync_update", cfg.Sync.MetaSyncUpdate),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}

	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}

	log.Info("All connections healthy")

	// 6. Initialize Repositories
	mapRepo := postgres.NewMapRepository(db)
	metaRepo := postgres.NewMetadataRepository(db)
	contentRepo := postgres.NewContentRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)

	if cfg.Geocoder.AccessToken == "" {
		log.Warn("MAPBOX_ACCESS_TOKEN is empty, address geocoding will fail")
	}
	geocoder := usecase.NewCachedGeocoder(
		mapbox.NewMapboxClient(&cfg.Geocoder, log),
		cacheRepo,
		cfg.Cache.GeocodeCacheTTL,
		log,
	)

	log.Info("Repositories initialized")

	// 7. Initialize Use Cases
	syncUC := usecase.NewMetaSyncUseCase(
		mapRepo,
		metaRepo,
		usecase.NewPOIBuilder(geocoder, log),
		cfg.Sync,
		log,
	)

	mashupUC := usecase.NewMashupUseCase(
		contentRepo,
		mapRepo,
		log,
	)

	log.Info("Use cases initialized")

	// 8. Initialize HTTP Handlers
	syncHandler := handler.NewSyncHandler(syncUC, log)
	mashupHandler := handler.NewMashupHandler(mashupUC, log)

	// 9. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		syncHandler,
		mashupHandler,
		map[string]httpDelivery.HealthChecker{
			"postgres": db,
			"redis":    redisClient,
		},
	)

	// 10. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
