package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/domain/repository"
	"github.com/poi-mashup/internal/pkg/attrs"
	"github.com/poi-mashup/internal/pkg/errors"
	"github.com/poi-mashup/internal/pkg/query"
	"github.com/poi-mashup/internal/usecase/dto"
	"go.uber.org/zap"
)

// mashupKeys - атрибуты, которые управляют агрегацией и не попадают в карту
var mashupKeys = map[string]bool{
	"show":         true,
	"show_query":   true,
	"marker_title": true,
	"marker_body":  true,
	"marker_link":  true,
	"tooltips":     true,
}

// MashupUseCase собирает POI карт многих элементов в одну карту
type MashupUseCase struct {
	contentRepo repository.ContentRepository
	mapRepo     repository.MapRepository
	logger      *zap.Logger
}

func NewMashupUseCase(
	contentRepo repository.ContentRepository,
	mapRepo repository.MapRepository,
	logger *zap.Logger,
) *MashupUseCase {
	return &MashupUseCase{
		contentRepo: contentRepo,
		mapRepo:     mapRepo,
		logger:      logger,
	}
}

// GetMashup строит опции и контекст запроса из DTO и выполняет агрегацию
func (uc *MashupUseCase) GetMashup(ctx context.Context, req dto.MashupRequest) (*dto.MashupResponse, error) {
	opts, err := uc.buildOptions(req)
	if err != nil {
		return nil, err
	}

	scope, err := uc.buildScope(ctx, req)
	if err != nil {
		return nil, err
	}

	m, err := uc.Aggregate(ctx, opts, scope)
	if err != nil {
		return nil, err
	}

	return &dto.MashupResponse{
		Show:  domain.ShowModeName(opts.Show),
		Map:   m,
		Total: len(m.POIs),
	}, nil
}

// Aggregate выбирает элементы по режиму, собирает POI их карт с
// переопределениями и возвращает несохраняемую карту.
// Активный элемент scope восстанавливается на любом выходе.
func (uc *MashupUseCase) Aggregate(ctx context.Context, opts domain.MashupOptions, scope *domain.RequestScope) (*domain.Map, error) {
	if scope == nil {
		scope = domain.NewRequestScope(nil, nil)
	}
	restore := scope.Activate(scope.Active())
	defer restore()

	items, err := uc.selectItems(ctx, opts.Show, scope)
	if err != nil {
		return nil, err
	}

	pois, err := uc.collectPOIs(ctx, items, opts, scope)
	if err != nil {
		return nil, err
	}

	mashup := domain.NewMap(opts.Presentation)
	mashup.POIs = pois

	uc.logger.Debug("Mashup aggregated",
		zap.String("show", domain.ShowModeName(opts.Show)),
		zap.Int("items", len(items)),
		zap.Int("pois", len(pois)))

	return mashup, nil
}

func (uc *MashupUseCase) selectItems(ctx context.Context, show domain.ShowMode, scope *domain.RequestScope) ([]*domain.ContentItem, error) {
	switch mode := show.(type) {
	case domain.ShowAll:
		// Без ограничения размера выборки
		filter := domain.NewStructuredFilter()
		filter.Scalars["posts_per_page"] = "-1"
		filter.Scalars["post_type"] = "any"
		return uc.query(ctx, filter)

	case domain.ShowQuery:
		if strings.TrimSpace(mode.Spec) == "" {
			return nil, errors.ErrQueryRequired
		}
		filter, err := query.Resolve(mode.Spec)
		if err != nil {
			uc.logger.Warn("Invalid query specification", zap.String("spec", mode.Spec), zap.Error(err))
			return nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"show_query": err.Error()})
		}
		return uc.query(ctx, filter)

	case domain.ShowCurrent:
		return scope.Items(), nil

	default:
		return nil, errors.ErrInvalidShowMode
	}
}

func (uc *MashupUseCase) query(ctx context.Context, filter domain.StructuredFilter) ([]*domain.ContentItem, error) {
	items, err := uc.contentRepo.Query(ctx, filter)
	if err != nil {
		uc.logger.Error("Failed to query content items", zap.Error(err))
		return nil, fmt.Errorf("query content: %w", err)
	}
	return items, nil
}

func (uc *MashupUseCase) collectPOIs(
	ctx context.Context,
	items []*domain.ContentItem,
	opts domain.MashupOptions,
	scope *domain.RequestScope,
) ([]*domain.POI, error) {
	result := make([]*domain.POI, 0)

	for _, item := range items {
		maps, err := uc.mapRepo.GetAllByItem(ctx, item.ID)
		if err != nil {
			uc.logger.Error("Failed to get item maps", zap.Int64("item_id", item.ID), zap.Error(err))
			return nil, fmt.Errorf("get maps for item %d: %w", item.ID, err)
		}

		var excerpt *string
		for _, m := range maps {
			for _, src := range m.POIs {
				poi := src.Clone()

				if opts.TitleSource == domain.TitleFromPost {
					poi.Title = item.Title
				}
				if opts.LinkEnabled {
					poi.URL = item.Permalink
				}

				switch opts.BodySource {
				case domain.BodyFromExcerpt:
					if excerpt == nil {
						text, err := uc.excerptFor(ctx, scope, item)
						if err != nil {
							return nil, err
						}
						excerpt = &text
					}
					poi.Body = *excerpt
				case domain.BodyNone:
					poi.Body = ""
				}

				result = append(result, poi)
			}
		}
	}

	return result, nil
}

// excerptFor вычисляет описание item, временно делая его активным
func (uc *MashupUseCase) excerptFor(ctx context.Context, scope *domain.RequestScope, item *domain.ContentItem) (string, error) {
	var text string
	err := scope.WithActive(item, func() error {
		var err error
		text, err = uc.contentRepo.Excerpt(ctx, scope)
		return err
	})
	if err != nil {
		uc.logger.Error("Failed to derive excerpt", zap.Int64("item_id", item.ID), zap.Error(err))
		return "", fmt.Errorf("excerpt for item %d: %w", item.ID, err)
	}
	return text, nil
}

func (uc *MashupUseCase) buildOptions(req dto.MashupRequest) (domain.MashupOptions, error) {
	opts := domain.DefaultMashupOptions()
	if req.Widget {
		opts = domain.WidgetMashupOptions()
	}

	if strings.TrimSpace(req.Shortcode) != "" {
		set, err := attrs.Parse(req.Shortcode)
		if err != nil || set.Kind != attrs.KindAttributeList {
			return opts, errors.ErrParseInput.WithDetails(map[string]interface{}{"shortcode": req.Shortcode})
		}
		return OptionsFromAttributes(set, opts)
	}

	show := domain.ShowModeName(opts.Show)
	if req.Show != "" {
		show = req.Show
	}
	mode, err := domain.ParseShowMode(show, req.ShowQuery)
	if err != nil {
		return opts, errors.ErrInvalidShowMode
	}
	opts.Show = mode

	if req.MarkerTitle != "" {
		opts.TitleSource = domain.TitleSource(req.MarkerTitle)
	}
	if req.MarkerBody != "" {
		opts.BodySource = domain.BodySource(req.MarkerBody)
	}
	if req.MarkerLink != nil {
		opts.LinkEnabled = *req.MarkerLink
	}
	if req.Tooltips != nil {
		opts.Tooltips = *req.Tooltips
	}
	for k, v := range req.Presentation {
		opts.Presentation[k] = v
	}

	return opts, nil
}

func (uc *MashupUseCase) buildScope(ctx context.Context, req dto.MashupRequest) (*domain.RequestScope, error) {
	ids := req.CurrentIDs
	if req.ActiveID > 0 {
		ids = append(append([]int64{}, ids...), req.ActiveID)
	}
	if len(ids) == 0 {
		return domain.NewRequestScope(nil, nil), nil
	}

	loaded, err := uc.contentRepo.GetByIDs(ctx, ids)
	if err != nil {
		uc.logger.Error("Failed to load current items", zap.Int64s("ids", ids), zap.Error(err))
		return nil, fmt.Errorf("load current items: %w", err)
	}

	byID := make(map[int64]*domain.ContentItem, len(loaded))
	for _, item := range loaded {
		byID[item.ID] = item
	}

	current := make([]*domain.ContentItem, 0, len(req.CurrentIDs))
	for _, id := range req.CurrentIDs {
		if item, ok := byID[id]; ok {
			current = append(current, item)
		}
	}

	return domain.NewRequestScope(current, byID[req.ActiveID]), nil
}

// OptionsFromAttributes применяет разобранные атрибуты поверх defaults.
// Атрибуты мэшапа задают режим и переопределения, остальные копируются
// в атрибуты отображения без изменений.
func OptionsFromAttributes(set *attrs.Set, defaults domain.MashupOptions) (domain.MashupOptions, error) {
	opts := defaults
	opts.Presentation = make(map[string]interface{}, len(defaults.Presentation)+len(set.Values))
	for k, v := range defaults.Presentation {
		opts.Presentation[k] = v
	}

	show := domain.ShowModeName(defaults.Show)
	if set.Has("show") {
		show = set.String("show")
	}
	mode, err := domain.ParseShowMode(show, set.String("show_query"))
	if err != nil {
		return opts, errors.ErrInvalidShowMode
	}
	opts.Show = mode

	if set.Has("marker_title") {
		opts.TitleSource = domain.TitleSource(set.String("marker_title"))
	}
	if set.Has("marker_body") {
		opts.BodySource = domain.BodySource(set.String("marker_body"))
	}
	opts.LinkEnabled = set.Bool("marker_link", defaults.LinkEnabled)
	opts.Tooltips = set.Bool("tooltips", defaults.Tooltips)

	for k, v := range set.Values {
		if !mashupKeys[k] {
			opts.Presentation[k] = v
		}
	}

	return opts, nil
}
