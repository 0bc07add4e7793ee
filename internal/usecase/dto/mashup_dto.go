package dto

import "github.com/poi-mashup/internal/domain"

// MashupRequest - параметры мэшапа. Если задан Shortcode, остальные
// параметры отображения берутся из него.
type MashupRequest struct {
	Shortcode   string  `json:"shortcode,omitempty" query:"shortcode"`
	Widget      bool    `json:"widget,omitempty" query:"widget"`
	Show        string  `json:"show,omitempty" query:"show" validate:"omitempty,oneof=all current query"`
	ShowQuery   string  `json:"show_query,omitempty" query:"show_query" validate:"omitempty,max=2048"`
	MarkerTitle string  `json:"marker_title,omitempty" query:"marker_title" validate:"omitempty,oneof=post marker"`
	MarkerBody  string  `json:"marker_body,omitempty" query:"marker_body" validate:"omitempty,oneof=excerpt marker none"`
	MarkerLink  *bool   `json:"marker_link,omitempty" query:"marker_link"`
	Tooltips    *bool   `json:"tooltips,omitempty" query:"tooltips"`
	CurrentIDs  []int64 `json:"current_ids,omitempty" query:"current_ids" validate:"omitempty,max=500,dive,min=1"`
	ActiveID    int64   `json:"active_id,omitempty" query:"active_id" validate:"omitempty,min=1"`

	// Presentation - атрибуты отображения, передаются в карту как есть
	Presentation map[string]interface{} `json:"presentation,omitempty" query:"-"`
}

// MashupResponse - итоговая карта мэшапа (не сохраняется)
type MashupResponse struct {
	Show  string      `json:"show"`
	Map   *domain.Map `json:"map"`
	Total int         `json:"total"`
}
