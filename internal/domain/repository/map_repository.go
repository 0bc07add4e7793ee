package repository

import (
	"context"

	"github.com/poi-mashup/internal/domain"
)

// MapRepository определяет методы для работы с картами элементов контента
type MapRepository interface {
	// GetByItemAndField возвращает карту элемента, синхронизированную из поля, или nil
	GetByItemAndField(ctx context.Context, itemID int64, field string) (*domain.Map, error)

	// GetAllByItem возвращает все карты элемента в порядке создания
	GetAllByItem(ctx context.Context, itemID int64) ([]*domain.Map, error)

	// Save создает или полностью заменяет карту (включая список POI)
	Save(ctx context.Context, m *domain.Map, itemID int64) error

	// Delete удаляет карту элемента
	Delete(ctx context.Context, itemID, mapID int64) error
}
