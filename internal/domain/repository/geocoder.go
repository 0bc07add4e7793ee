package repository

import (
	"context"

	"github.com/poi-mashup/internal/domain"
)

// GeocodeResult - результат геокодирования адреса
type GeocodeResult struct {
	Point            domain.Coordinates `json:"point"`
	CorrectedAddress string             `json:"corrected_address,omitempty"`
}

// Geocoder определяет внешний сервис геокодирования.
// Неразрешимый адрес возвращается как *domain.GeocodeError.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeocodeResult, error)
}
