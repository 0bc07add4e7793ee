package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/poi-mashup/internal/domain/repository"
	"go.uber.org/zap"
)

// CachedGeocoder - геокодер с кешем результатов по нормализованному адресу.
// Ошибки кеша не влияют на результат, неудачное геокодирование не кешируется.
type CachedGeocoder struct {
	next   repository.Geocoder
	cache  repository.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedGeocoder(
	next repository.Geocoder,
	cache repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *CachedGeocoder {
	return &CachedGeocoder{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (*repository.GeocodeResult, error) {
	key := normalizeAddress(address)

	cached, err := g.cache.GetGeocode(ctx, key)
	if err != nil {
		g.logger.Warn("Geocode cache read failed", zap.String("address", key), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	result, err := g.next.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if err := g.cache.SetGeocode(ctx, key, result, g.ttl); err != nil {
		g.logger.Warn("Geocode cache write failed", zap.String("address", key), zap.Error(err))
	}

	return result, nil
}

func normalizeAddress(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
