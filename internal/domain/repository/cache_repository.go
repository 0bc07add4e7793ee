package repository

import (
	"context"
	"time"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу, nil при промахе
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetGeocode получает результат геокодирования адреса
	GetGeocode(ctx context.Context, address string) (*GeocodeResult, error)

	// SetGeocode сохраняет результат геокодирования адреса
	SetGeocode(ctx context.Context, address string, result *GeocodeResult, ttl time.Duration) error
}
