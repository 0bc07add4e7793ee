// Package attrs разбирает строковые значения полей метаданных и атрибуты
// мэшапа. Строка без кавычек - это один адрес, строка с кавычками -
// список пар key="value". После разбора значения всегда проходят Scrub.
package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/poi-mashup/internal/domain"
)

// Kind - вариант кодировки исходной строки
type Kind int

const (
	// KindAddressOnly - вся строка является адресом
	KindAddressOnly Kind = iota
	// KindAttributeList - строка вида key="value" key2="value2"
	KindAttributeList
)

func (k Kind) String() string {
	if k == KindAttributeList {
		return "attribute_list"
	}
	return "address_only"
}

// ParseError - некорректная кодировка списка атрибутов
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse input %q: %s", e.Input, e.Reason)
}

// Set - результат разбора: исходные пары и нормализованные значения
type Set struct {
	Kind   Kind
	Raw    map[string]string
	Values map[string]interface{}
}

var pairRe = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_-]*)\s*=\s*"([^"]*)"`)

// IsAttributeList - единственный признак кодировки: наличие двойной кавычки
func IsAttributeList(raw string) bool {
	return strings.Contains(raw, `"`)
}

// Parse разбирает строку и применяет Scrub
func Parse(raw string) (*Set, error) {
	if !IsAttributeList(raw) {
		pairs := map[string]string{"address": strings.TrimSpace(raw)}
		return &Set{Kind: KindAddressOnly, Raw: pairs, Values: Scrub(pairs)}, nil
	}

	pairs, err := parseList(raw)
	if err != nil {
		return nil, err
	}
	return &Set{Kind: KindAttributeList, Raw: pairs, Values: Scrub(pairs)}, nil
}

func parseList(raw string) (map[string]string, error) {
	pairs := make(map[string]string)
	rest := raw

	for strings.TrimSpace(rest) != "" {
		m := pairRe.FindStringSubmatchIndex(rest)
		if m == nil {
			return nil, &ParseError{Input: raw, Reason: fmt.Sprintf("unexpected text near %q", strings.TrimSpace(rest))}
		}
		key := strings.ToLower(rest[m[2]:m[3]])
		pairs[key] = rest[m[4]:m[5]]
		rest = rest[m[1]:]
	}

	if len(pairs) == 0 {
		return nil, &ParseError{Input: raw, Reason: "no attributes found"}
	}
	return pairs, nil
}

var (
	floatKeys = map[string]bool{"lat": true, "lng": true}
	intKeys   = map[string]bool{"zoom": true, "width": true, "height": true}
)

// Scrub нормализует атрибуты: ключи в нижнем регистре, "true"/"false" в bool,
// lat/lng в float64, zoom/width/height в int, center "lat,lng" в Coordinates.
// Значения, которые не удалось привести, остаются строками.
func Scrub(pairs map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(pairs))
	for k, v := range pairs {
		key := strings.ToLower(strings.TrimSpace(k))
		val := strings.TrimSpace(v)
		out[key] = scrubValue(key, val)
	}
	return out
}

func scrubValue(key, val string) interface{} {
	switch strings.ToLower(val) {
	case "true":
		return true
	case "false":
		return false
	}

	switch {
	case floatKeys[key]:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	case intKeys[key]:
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	case key == "center":
		if c, ok := parseCenter(val); ok {
			return c
		}
	}
	return val
}

func parseCenter(val string) (domain.Coordinates, bool) {
	parts := strings.Split(val, ",")
	if len(parts) != 2 {
		return domain.Coordinates{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Coordinates{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Lat: lat, Lng: lng}, true
}

// String возвращает строковое значение ключа или ""
func (s *Set) String(key string) string {
	switch v := s.Values[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return s.Raw[key]
	}
}

// Bool возвращает булево значение ключа или def
func (s *Set) Bool(key string, def bool) bool {
	if v, ok := s.Values[key].(bool); ok {
		return v
	}
	return def
}

// Float возвращает числовое значение ключа
func (s *Set) Float(key string) (float64, bool) {
	v, ok := s.Values[key].(float64)
	return v, ok
}

// Has - присутствует ли ключ
func (s *Set) Has(key string) bool {
	_, ok := s.Values[key]
	return ok
}
