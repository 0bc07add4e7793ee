package repository

import (
	"context"

	"github.com/poi-mashup/internal/domain"
)

// ContentRepository - выполнение структурированных запросов к хранилищу контента
type ContentRepository interface {
	// Query возвращает элементы по фильтру в порядке, определенном хранилищем
	Query(ctx context.Context, filter domain.StructuredFilter) ([]*domain.ContentItem, error)

	// GetByIDs возвращает элементы в порядке переданных ID
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.ContentItem, error)

	// Excerpt вычисляет краткое описание активного элемента scope
	Excerpt(ctx context.Context, scope *domain.RequestScope) (string, error)
}
