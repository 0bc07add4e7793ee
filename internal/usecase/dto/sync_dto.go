package dto

import "github.com/poi-mashup/internal/domain"

// SyncRequest - запрос на синхронизацию поля элемента с картой
type SyncRequest struct {
	Field       string `json:"field" validate:"required,max=255"`
	AllowUpdate bool   `json:"allow_update"`
}

// ItemSavedRequest - событие сохранения элемента
type ItemSavedRequest struct {
	ItemID   int64 `json:"item_id" validate:"required,min=1"`
	Revision bool  `json:"revision"`
}

// MetaChangedRequest - событие изменения поля метаданных
type MetaChangedRequest struct {
	ItemID int64  `json:"item_id" validate:"required,min=1"`
	Field  string `json:"field" validate:"required,max=255"`
}

// SyncResponse - результат синхронизации
type SyncResponse struct {
	ItemID  int64              `json:"item_id"`
	Field   string             `json:"field,omitempty"`
	Outcome domain.SyncOutcome `json:"outcome"`
}

// ItemMapsResponse - карты элемента
type ItemMapsResponse struct {
	ItemID int64         `json:"item_id"`
	Maps   []*domain.Map `json:"maps"`
	Total  int           `json:"total"`
}
