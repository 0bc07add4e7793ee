package repository

import "context"

// MetadataRepository - доступ к полям метаданных элементов контента
type MetadataRepository interface {
	// GetOrderedValues возвращает значения поля в порядке вставки.
	// Чтение всегда идет напрямую в хранилище, без кеша.
	GetOrderedValues(ctx context.Context, itemID int64, field string) ([]string, error)

	// ReplaceValues полностью заменяет значения поля
	ReplaceValues(ctx context.Context, itemID int64, field string, values []string) error

	// DeleteAllValues удаляет все значения поля
	DeleteAllValues(ctx context.Context, itemID int64, field string) error
}
