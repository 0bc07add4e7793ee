package domain

import "fmt"

// ShowMode - закрытый набор режимов выбора элементов для мэшапа:
// ShowAll, ShowCurrent, ShowQuery.
type ShowMode interface {
	showMode() string
}

// ShowAll - все элементы контента без фильтра
type ShowAll struct{}

// ShowCurrent - элементы текущего запроса/страницы
type ShowCurrent struct{}

// ShowQuery - элементы по текстовой спецификации запроса
type ShowQuery struct {
	Spec string
}

func (ShowAll) showMode() string     { return "all" }
func (ShowCurrent) showMode() string { return "current" }
func (ShowQuery) showMode() string   { return "query" }

// ShowModeName - строковое имя режима
func ShowModeName(m ShowMode) string {
	if m == nil {
		return ""
	}
	return m.showMode()
}

// ParseShowMode переводит строковый режим в вариант
func ParseShowMode(show, query string) (ShowMode, error) {
	switch show {
	case "all":
		return ShowAll{}, nil
	case "current":
		return ShowCurrent{}, nil
	case "query":
		return ShowQuery{Spec: query}, nil
	default:
		return nil, fmt.Errorf("unknown show mode %q", show)
	}
}

// TitleSource - откуда брать заголовок маркера
type TitleSource string

const (
	TitleFromPost   TitleSource = "post"
	TitleFromMarker TitleSource = "marker"
)

// BodySource - откуда брать текст маркера
type BodySource string

const (
	BodyFromExcerpt BodySource = "excerpt"
	BodyFromMarker  BodySource = "marker"
	BodyNone        BodySource = "none"
)

// MashupOptions - параметры агрегации. Presentation передается в
// итоговую карту без изменений.
type MashupOptions struct {
	Show         ShowMode
	TitleSource  TitleSource
	BodySource   BodySource
	LinkEnabled  bool
	Tooltips     bool
	Presentation map[string]interface{}
}

// DefaultMashupOptions - значения по умолчанию для мэшапа
func DefaultMashupOptions() MashupOptions {
	return MashupOptions{
		Show:         ShowAll{},
		TitleSource:  TitleFromMarker,
		BodySource:   BodyFromMarker,
		LinkEnabled:  true,
		Tooltips:     false,
		Presentation: map[string]interface{}{},
	}
}

// WidgetMashupOptions - значения по умолчанию для виджета карты
func WidgetMashupOptions() MashupOptions {
	opts := DefaultMashupOptions()
	opts.Show = ShowCurrent{}
	opts.Presentation = map[string]interface{}{
		"width":              200,
		"height":             250,
		"poiList":            false,
		"directions":         "none",
		"traffic":            false,
		"center":             Coordinates{Lat: 0, Lng: 0},
		"mapTypeId":          "roadmap",
		"overviewMapControl": false,
		"initialOpenInfo":    false,
	}
	return opts
}
