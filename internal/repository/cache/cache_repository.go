package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/poi-mashup/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// geocodeKey - ключ кеша геокодирования для уже нормализованного адреса
func geocodeKey(address string) string {
	return "geocode:" + address
}

// GetGeocode получает результат геокодирования из кеша, nil при промахе
func (r *cacheRepository) GetGeocode(ctx context.Context, address string) (*repository.GeocodeResult, error) {
	data, err := r.Get(ctx, geocodeKey(address))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var result repository.GeocodeResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.logger.Error("Failed to unmarshal geocode result from cache",
			zap.String("address", address),
			zap.Error(err))
		return nil, fmt.Errorf("unmarshal geocode result: %w", err)
	}

	return &result, nil
}

// SetGeocode сохраняет результат геокодирования в кеше
func (r *cacheRepository) SetGeocode(ctx context.Context, address string, result *repository.GeocodeResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		r.logger.Error("Failed to marshal geocode result", zap.Error(err))
		return fmt.Errorf("marshal geocode result: %w", err)
	}

	return r.Set(ctx, geocodeKey(address), data, ttl)
}
