package domain

import "time"

// Map - упорядоченный набор POI, привязанный к элементу контента
// и (опционально) к полю метаданных, из которого он синхронизирован.
type Map struct {
	ID         int64                  `json:"id,omitempty" db:"id"`
	ItemID     int64                  `json:"item_id,omitempty" db:"item_id"`
	MetaKey    string                 `json:"meta_key,omitempty" db:"meta_key"`
	Title      string                 `json:"title" db:"title"`
	Center     Coordinates            `json:"center"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	POIs       []*POI                 `json:"pois"`
	UpdatedAt  time.Time              `json:"updated_at,omitempty" db:"updated_at"`
}

// NewMap создает карту из атрибутов отображения. Известные ключи (title)
// выставляются в поля, все атрибуты сохраняются как есть.
func NewMap(atts map[string]interface{}) *Map {
	m := &Map{
		Attributes: make(map[string]interface{}, len(atts)),
		POIs:       []*POI{},
	}
	for k, v := range atts {
		m.Attributes[k] = v
	}
	if title, ok := atts["title"].(string); ok {
		m.Title = title
	}
	if center, ok := atts["center"].(Coordinates); ok {
		m.Center = center
	}
	return m
}

// IsNew - карта еще не сохранялась
func (m *Map) IsNew() bool {
	return m.ID == 0
}

// ReplacePOIs полностью заменяет список POI и привязку к полю.
// Синхронизированная карта получает заголовок по имени поля и центр (0,0).
func (m *Map) ReplacePOIs(pois []*POI, metaKey string) {
	m.POIs = pois
	m.Title = metaKey
	m.MetaKey = metaKey
	m.Center = Coordinates{Lat: 0, Lng: 0}
}
