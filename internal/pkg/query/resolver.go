// Package query переводит текстовую спецификацию запроса
// (key=value&key2=value2) в структурированный фильтр для хранилища контента.
package query

import (
	"net/url"
	"strings"

	"github.com/poi-mashup/internal/domain"
)

// ListParams - ключи, значения которых передаются списком через запятую
var ListParams = []string{
	"category__in",
	"category__not_in",
	"category__and",
	"tag__and",
	"tag__in",
	"tag__not_in",
	"tag_slug__and",
	"tag_slug__in",
	"post__in",
	"post__not_in",
	"post_type",
}

// ampersand - варианты перекодированного "&", которые встречаются в атрибутах
var ampersand = strings.NewReplacer("&amp;", "&", "&#038;", "&")

// Resolve разбирает спецификацию. Неизвестные ключи проходят как скаляры,
// при повторе ключа берется последнее значение. Пара с некорректным
// экранированием не отбрасывается: ключ и значение остаются как есть.
func Resolve(spec string) (domain.StructuredFilter, error) {
	filter := domain.NewStructuredFilter()

	for _, pair := range strings.Split(ampersand.Replace(strings.TrimSpace(spec)), "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = unescape(key)
		if key == "" {
			continue
		}
		filter.Scalars[key] = unescape(value)
	}

	for _, key := range ListParams {
		v, ok := filter.Scalars[key]
		if !ok || v == "" {
			continue
		}
		filter.Lists[key] = strings.Split(v, ",")
		delete(filter.Scalars, key)
	}

	return filter, nil
}

// unescape декодирует компонент запроса, при ошибке возвращает исходный текст
func unescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}
