package domain

import "fmt"

// Coordinates - координаты точки
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// POI представляет маркер на карте
type POI struct {
	Title            string            `json:"title"`
	Body             string            `json:"body"`
	URL              string            `json:"url,omitempty"`
	Address          string            `json:"address,omitempty"`
	CorrectedAddress string            `json:"corrected_address,omitempty"`
	Point            *Coordinates      `json:"point,omitempty"`
	IconID           string            `json:"icon_id,omitempty"`
	Attributes       map[string]string `json:"attributes,omitempty"` // исходные атрибуты из поля
}

// IsLocated - есть ли у POI координаты после геокодирования
func (p *POI) IsLocated() bool {
	return p != nil && p.Point != nil
}

// Clone возвращает копию POI, чтобы переопределения в мэшапе не трогали сохраненную карту
func (p *POI) Clone() *POI {
	cp := *p
	if p.Point != nil {
		pt := *p.Point
		cp.Point = &pt
	}
	if p.Attributes != nil {
		cp.Attributes = make(map[string]string, len(p.Attributes))
		for k, v := range p.Attributes {
			cp.Attributes[k] = v
		}
	}
	return &cp
}

const GeocodeErrorKind = "geocode"

// GeocodeError - адрес не удалось разрешить (или разобрать)
type GeocodeError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func NewGeocodeError(format string, args ...interface{}) *GeocodeError {
	return &GeocodeError{
		Kind:    GeocodeErrorKind,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *GeocodeError) Error() string {
	return e.Message
}
