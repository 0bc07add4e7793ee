package mapbox

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/poi-mashup/internal/config"
	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_Geocode(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/geocoding/v5/mapbox.places/Carrer de Mallorca 401.json", r.URL.Path)
			assert.Equal(t, "test_token", r.URL.Query().Get("access_token"))
			assert.Equal(t, "1", r.URL.Query().Get("limit"))
			assert.Equal(t, "es", r.URL.Query().Get("country"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"type": "FeatureCollection",
				"features": [{
					"place_name": "Carrer de Mallorca 401, 08013 Barcelona, Spain",
					"center": [2.1744, 41.4036],
					"relevance": 0.98
				}]
			}`))
		}))
		defer server.Close()

		client := NewMapboxClient(&config.GeocoderConfig{
			AccessToken:    "test_token",
			BaseURL:        server.URL,
			RequestTimeout: 5,
			Country:        "es",
		}, logger)

		result, err := client.Geocode(context.Background(), "Carrer de Mallorca 401")
		require.NoError(t, err)
		assert.Equal(t, domain.Coordinates{Lat: 41.4036, Lng: 2.1744}, result.Point)
		assert.Equal(t, "Carrer de Mallorca 401, 08013 Barcelona, Spain", result.CorrectedAddress)
	})

	t.Run("no results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"type": "FeatureCollection", "features": []}`))
		}))
		defer server.Close()

		client := NewMapboxClient(&config.GeocoderConfig{BaseURL: server.URL, RequestTimeout: 5}, logger)

		result, err := client.Geocode(context.Background(), "nowhere at all")
		assert.Nil(t, result)
		var geoErr *domain.GeocodeError
		require.True(t, stderrors.As(err, &geoErr))
		assert.Equal(t, "No results for address: nowhere at all", geoErr.Message)
	})

	t.Run("api error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message": "Not Authorized - Invalid Token"}`))
		}))
		defer server.Close()

		client := NewMapboxClient(&config.GeocoderConfig{BaseURL: server.URL, RequestTimeout: 5}, logger)

		_, err := client.Geocode(context.Background(), "somewhere")
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrGeocoderUnavailable))
		var geoErr *domain.GeocodeError
		assert.False(t, stderrors.As(err, &geoErr))
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		client := NewMapboxClient(&config.GeocoderConfig{BaseURL: server.URL, RequestTimeout: 5}, logger)

		_, err := client.Geocode(context.Background(), "somewhere")
		assert.Error(t, err)
	})

	t.Run("empty address", func(t *testing.T) {
		client := NewMapboxClient(&config.GeocoderConfig{BaseURL: "http://127.0.0.1:1", RequestTimeout: 1}, logger)

		_, err := client.Geocode(context.Background(), "  ")
		var geoErr *domain.GeocodeError
		assert.True(t, stderrors.As(err, &geoErr))
	})
}
