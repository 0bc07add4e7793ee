package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/poi-mashup/internal/config"
	"github.com/poi-mashup/internal/infrastructure/mapbox"
	"github.com/poi-mashup/internal/pkg/logger"
	"github.com/poi-mashup/internal/repository/cache"
	"github.com/poi-mashup/internal/repository/postgres"
	redisRepo "github.com/poi-mashup/internal/repository/redis"
	"github.com/poi-mashup/internal/usecase"
	"github.com/poi-mashup/internal/worker"
	"github.com/poi-mashup/internal/worker/meta"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "poi-mashup-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Meta Sync Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.String("meta_key", cfg.Sync.MetaKey),
		zap.String("meta_key_errors", cfg.Sync.MetaKeyErrors))

	if cfg.Sync.MetaKey == "" {
		log.Warn("META_KEY is empty, all events will be acknowledged without synchronization")
	}

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

	// 4. Connect to Redis: cache pool and a separate client for blocking stream reads
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	streamClient, err := cache.NewRedisStreams(&cfg.Redis, redisRepo.BlockTimeout, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis Streams", zap.Error(err))
	}
	defer func() {
		if err := streamClient.Close(); err != nil {
			log.Error("Failed to close Redis Streams connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories
	mapRepo := postgres.NewMapRepository(db)
	metaRepo := postgres.NewMetadataRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(streamClient, log)

	geocoder := usecase.NewCachedGeocoder(
		mapbox.NewMapboxClient(&cfg.Geocoder, log),
		cacheRepo,
		cfg.Cache.GeocodeCacheTTL,
		log,
	)

	// 6. Initialize use cases
	syncUC := usecase.NewMetaSyncUseCase(
		mapRepo,
		metaRepo,
		usecase.NewPOIBuilder(geocoder, log),
		cfg.Sync,
		log,
	)

	// 7. Initialize workers
	syncWorker := meta.NewSyncWorker(
		streamRepo,
		syncUC,
		cfg.Sync.MetaKey,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
	)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(syncWorker)

	// 9. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start workers
	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	// Stop worker manager first so in-flight passes can finish
	if err := workerManager.Stop(context.Background()); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	cancel()

	log.Info("Worker shutdown complete")
}
