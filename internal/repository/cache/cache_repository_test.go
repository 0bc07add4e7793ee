package cache

import (
	"context"
	"testing"
	"time"

	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestCache(t *testing.T) (*cacheRepository, func()) {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // отдельная БД для тестов
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	repo := &cacheRepository{client: client, logger: zap.NewNop()}

	cleanup := func() {
		client.FlushDB(ctx)
		client.Close()
	}

	return repo, cleanup
}

func TestGeocodeKey(t *testing.T) {
	assert.Equal(t, "geocode:123 main st", geocodeKey("123 main st"))
}

func TestCacheRepository_Geocode(t *testing.T) {
	repo, cleanup := setupTestCache(t)
	defer cleanup()

	ctx := context.Background()

	t.Run("miss", func(t *testing.T) {
		got, err := repo.GetGeocode(ctx, "unknown")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("round trip", func(t *testing.T) {
		result := &repository.GeocodeResult{
			Point:            domain.Coordinates{Lat: 41.4036, Lng: 2.1744},
			CorrectedAddress: "Carrer de Mallorca 401, Barcelona",
		}
		require.NoError(t, repo.SetGeocode(ctx, "carrer de mallorca 401", result, time.Minute))

		got, err := repo.GetGeocode(ctx, "carrer de mallorca 401")
		require.NoError(t, err)
		assert.Equal(t, result, got)

		ttl, err := repo.client.TTL(ctx, "geocode:carrer de mallorca 401").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("corrupted entry", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "geocode:broken", []byte("{"), time.Minute))
		_, err := repo.GetGeocode(ctx, "broken")
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "k", []byte("v"), time.Minute))
		require.NoError(t, repo.Delete(ctx, "k"))
		got, err := repo.Get(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
