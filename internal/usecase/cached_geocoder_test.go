package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/domain/repository"
	"github.com/poi-mashup/internal/usecase"
)

func TestCachedGeocoder_Geocode(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	ttl := time.Hour
	result := &repository.GeocodeResult{Point: domain.Coordinates{Lat: 1, Lng: 2}}

	t.Run("cache hit", func(t *testing.T) {
		next := &MockGeocoder{}
		cache := &MockCacheRepository{}
		cache.On("GetGeocode", ctx, "123 main st").Return(result, nil)

		got, err := usecase.NewCachedGeocoder(next, cache, ttl, logger).Geocode(ctx, "  123   Main St ")
		require.NoError(t, err)
		assert.Same(t, result, got)
		next.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	})

	t.Run("cache miss stores the result", func(t *testing.T) {
		next := &MockGeocoder{}
		cache := &MockCacheRepository{}
		cache.On("GetGeocode", ctx, "123 main st").Return(nil, nil)
		next.On("Geocode", ctx, "123 Main St").Return(result, nil)
		cache.On("SetGeocode", ctx, "123 main st", result, ttl).Return(nil)

		got, err := usecase.NewCachedGeocoder(next, cache, ttl, logger).Geocode(ctx, "123 Main St")
		require.NoError(t, err)
		assert.Same(t, result, got)
		cache.AssertExpectations(t)
	})

	t.Run("cache failures degrade to a direct call", func(t *testing.T) {
		next := &MockGeocoder{}
		cache := &MockCacheRepository{}
		cache.On("GetGeocode", ctx, "a").Return(nil, errors.New("redis down"))
		next.On("Geocode", ctx, "a").Return(result, nil)
		cache.On("SetGeocode", ctx, "a", result, ttl).Return(errors.New("redis down"))

		got, err := usecase.NewCachedGeocoder(next, cache, ttl, logger).Geocode(ctx, "a")
		require.NoError(t, err)
		assert.Same(t, result, got)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		next := &MockGeocoder{}
		cache := &MockCacheRepository{}
		cache.On("GetGeocode", ctx, "nowhere").Return(nil, nil)
		next.On("Geocode", ctx, "nowhere").Return(nil, domain.NewGeocodeError("no results"))

		_, err := usecase.NewCachedGeocoder(next, cache, ttl, logger).Geocode(ctx, "nowhere")
		assert.Error(t, err)
		cache.AssertNotCalled(t, "SetGeocode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
