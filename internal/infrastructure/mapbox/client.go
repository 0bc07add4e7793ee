package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poi-mashup/internal/config"
	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/domain/repository"
	"github.com/poi-mashup/internal/pkg/errors"
	"go.uber.org/zap"
)

// geocodeResponse - часть ответа Mapbox Geocoding API v5, которая нам нужна
type geocodeResponse struct {
	Features []feature `json:"features"`
	Message  string    `json:"message,omitempty"`
}

type feature struct {
	PlaceName string    `json:"place_name"`
	Center    []float64 `json:"center"` // [lng, lat]
	Relevance float64   `json:"relevance"`
}

type client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	country     string
	language    string
	logger      *zap.Logger
}

// NewMapboxClient создает геокодер поверх Mapbox Geocoding API
func NewMapboxClient(cfg *config.GeocoderConfig, logger *zap.Logger) repository.Geocoder {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		country:     cfg.Country,
		language:    cfg.Language,
		logger:      logger,
	}
}

// Geocode возвращает координаты первого совпадения для адреса.
// Пустой ответ - ошибка геокодирования, ошибки HTTP - ошибки транспорта.
func (c *client) Geocode(ctx context.Context, address string) (*repository.GeocodeResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, domain.NewGeocodeError("No address to geocode")
	}

	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("limit", "1")
	if c.country != "" {
		params.Set("country", c.country)
	}
	if c.language != "" {
		params.Set("language", c.language)
	}

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		c.baseURL,
		url.PathEscape(address),
		params.Encode(),
	)

	c.logger.Debug("Calling Mapbox Geocoding API", zap.String("address", address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", errors.ErrGeocoderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Mapbox API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, fmt.Errorf("%w: status %d", errors.ErrGeocoderUnavailable, resp.StatusCode)
	}

	var geoResp geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geoResp); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(geoResp.Features) == 0 || len(geoResp.Features[0].Center) < 2 {
		c.logger.Debug("No geocoding results", zap.String("address", address))
		return nil, domain.NewGeocodeError("No results for address: %s", address)
	}

	best := geoResp.Features[0]
	result := &repository.GeocodeResult{
		Point:            domain.Coordinates{Lat: best.Center[1], Lng: best.Center[0]},
		CorrectedAddress: best.PlaceName,
	}

	c.logger.Debug("Mapbox Geocoding API call successful",
		zap.String("place_name", best.PlaceName),
		zap.Float64("relevance", best.Relevance))

	return result, nil
}
