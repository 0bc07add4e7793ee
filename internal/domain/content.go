package domain

import "time"

// ContentItem - элемент контента (запись), к которому привязаны карты
type ContentItem struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Permalink string    `json:"permalink" db:"permalink"`
	Excerpt   string    `json:"excerpt,omitempty" db:"excerpt"`
	Body      string    `json:"-" db:"body"`
	PostType  string    `json:"post_type" db:"post_type"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// StructuredFilter - запрос к хранилищу контента, полученный из текстовой спецификации.
// Lists содержит параметры-списки (category__in и т.п.), Scalars - все остальные.
type StructuredFilter struct {
	Scalars map[string]string   `json:"scalars"`
	Lists   map[string][]string `json:"lists"`
}

func NewStructuredFilter() StructuredFilter {
	return StructuredFilter{
		Scalars: make(map[string]string),
		Lists:   make(map[string][]string),
	}
}

func (f StructuredFilter) Scalar(key string) (string, bool) {
	v, ok := f.Scalars[key]
	return v, ok
}

func (f StructuredFilter) List(key string) ([]string, bool) {
	v, ok := f.Lists[key]
	return v, ok
}

// Values возвращает значение ключа как список: список как есть, скаляр - одним элементом
func (f StructuredFilter) Values(key string) []string {
	if v, ok := f.Lists[key]; ok {
		return v
	}
	if v, ok := f.Scalars[key]; ok && v != "" {
		return []string{v}
	}
	return nil
}
