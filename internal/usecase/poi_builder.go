package usecase

import (
	"context"
	"errors"

	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/domain/repository"
	"github.com/poi-mashup/internal/pkg/attrs"
	apperrors "github.com/poi-mashup/internal/pkg/errors"
	"github.com/poi-mashup/internal/pkg/utils"
	"go.uber.org/zap"
)

// POIBuilder строит геокодированный POI из одного значения поля метаданных
type POIBuilder struct {
	geocoder repository.Geocoder
	logger   *zap.Logger
}

func NewPOIBuilder(geocoder repository.Geocoder, logger *zap.Logger) *POIBuilder {
	return &POIBuilder{
		geocoder: geocoder,
		logger:   logger,
	}
}

// Build разбирает raw и геокодирует результат. Неудача по значению
// возвращается как *domain.GeocodeError; недоступность геокодера
// (ErrGeocoderUnavailable) возвращается как есть и прерывает проход.
// POI без координат наружу не отдается.
func (b *POIBuilder) Build(ctx context.Context, raw string) (*domain.POI, error) {
	set, err := attrs.Parse(raw)
	if err != nil {
		b.logger.Debug("Failed to parse metadata value", zap.String("raw", raw), zap.Error(err))
		return nil, domain.NewGeocodeError("Unable to parse input: %s", raw)
	}

	poi := newPOI(set)

	// Координаты заданы явно - геокодер не нужен
	if lat, ok := set.Float("lat"); ok {
		lng, ok := set.Float("lng")
		if !ok || !utils.ValidateCoordinates(lat, lng) {
			return nil, domain.NewGeocodeError("Invalid coordinates: %s", raw)
		}
		poi.Point = &domain.Coordinates{Lat: lat, Lng: lng}
		return poi, nil
	}

	if poi.Address == "" {
		return nil, domain.NewGeocodeError("No address to geocode: %s", raw)
	}

	result, err := b.geocoder.Geocode(ctx, poi.Address)
	if err != nil {
		var geoErr *domain.GeocodeError
		if errors.As(err, &geoErr) {
			return nil, geoErr
		}
		if errors.Is(err, apperrors.ErrGeocoderUnavailable) {
			return nil, err
		}
		b.logger.Warn("Geocoder call failed",
			zap.String("address", poi.Address),
			zap.Error(err))
		return nil, domain.NewGeocodeError("%s", err.Error())
	}

	poi.Point = &result.Point
	poi.CorrectedAddress = result.CorrectedAddress
	if poi.Title == "" {
		poi.Title = result.CorrectedAddress
	}
	if poi.Title == "" {
		poi.Title = poi.Address
	}

	return poi, nil
}

func newPOI(set *attrs.Set) *domain.POI {
	return &domain.POI{
		Title:      set.String("title"),
		Body:       set.String("body"),
		URL:        set.String("url"),
		Address:    set.String("address"),
		IconID:     set.String("iconid"),
		Attributes: set.Raw,
	}
}
