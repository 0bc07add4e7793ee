package usecase

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/poi-mashup/internal/config"
	"github.com/poi-mashup/internal/domain"
	"github.com/poi-mashup/internal/domain/repository"
	"github.com/poi-mashup/internal/pkg/errors"
	"github.com/poi-mashup/internal/usecase/dto"
	"go.uber.org/zap"
)

// MetaSyncUseCase синхронизирует POI из поля метаданных элемента с его картой
type MetaSyncUseCase struct {
	mapRepo  repository.MapRepository
	metaRepo repository.MetadataRepository
	builder  *POIBuilder
	cfg      config.SyncConfig
	logger   *zap.Logger
}

func NewMetaSyncUseCase(
	mapRepo repository.MapRepository,
	metaRepo repository.MetadataRepository,
	builder *POIBuilder,
	cfg config.SyncConfig,
	logger *zap.Logger,
) *MetaSyncUseCase {
	return &MetaSyncUseCase{
		mapRepo:  mapRepo,
		metaRepo: metaRepo,
		builder:  builder,
		cfg:      cfg,
		logger:   logger,
	}
}

// OnItemSaved - элемент сохранен. Ревизии пропускаются; карта создается,
// а при MetaSyncSave также обновляется или удаляется.
func (uc *MetaSyncUseCase) OnItemSaved(ctx context.Context, itemID int64, isRevision bool) (domain.SyncOutcome, error) {
	if isRevision || uc.cfg.MetaKey == "" {
		return domain.NoOpOutcome(), nil
	}
	return uc.Synchronize(ctx, itemID, uc.cfg.MetaKey, uc.cfg.MetaSyncSave)
}

// OnFieldChanged - поле метаданных добавлено, изменено или удалено.
// Реагирует только на настроенное поле при включенном MetaSyncUpdate.
func (uc *MetaSyncUseCase) OnFieldChanged(ctx context.Context, itemID int64, field string) (domain.SyncOutcome, error) {
	if !uc.cfg.MetaSyncUpdate || uc.cfg.MetaKey == "" || field != uc.cfg.MetaKey {
		return domain.NoOpOutcome(), nil
	}
	return uc.Synchronize(ctx, itemID, uc.cfg.MetaKey, true)
}

// Synchronize - синхронизация поля field элемента itemID с картой
func (uc *MetaSyncUseCase) Synchronize(ctx context.Context, itemID int64, field string, allowUpdate bool) (domain.SyncOutcome, error) {
	return uc.SynchronizeWithAttributes(ctx, itemID, field, allowUpdate, nil)
}

// SynchronizeWithAttributes - то же, что Synchronize; atts применяются к новой карте.
// Ошибки хранилища прерывают проход, ошибки отдельных значений - нет.
func (uc *MetaSyncUseCase) SynchronizeWithAttributes(
	ctx context.Context,
	itemID int64,
	field string,
	allowUpdate bool,
	atts map[string]interface{},
) (domain.SyncOutcome, error) {
	if itemID <= 0 || field == "" {
		return domain.SyncOutcome{}, errors.ErrInvalidRequest
	}

	logger := uc.logger.With(zap.Int64("item_id", itemID), zap.String("field", field))

	// 1. Существующая карта для поля
	existing, err := uc.mapRepo.GetByItemAndField(ctx, itemID, field)
	if err != nil {
		logger.Error("Failed to get existing map", zap.Error(err))
		return domain.SyncOutcome{}, fmt.Errorf("get map: %w", err)
	}

	// 2. Без обновления существующая карта не трогается
	if existing != nil && !allowUpdate {
		logger.Debug("Map already exists, update not allowed", zap.Int64("map_id", existing.ID))
		return domain.NoOpOutcome(), nil
	}

	// 3-4. POI из значений поля
	pois, errs, err := uc.CollectPOIs(ctx, itemID, field)
	if err != nil {
		return domain.SyncOutcome{}, err
	}

	// 5. Ошибки полностью заменяются
	if err := uc.recordErrors(ctx, itemID, errs); err != nil {
		logger.Error("Failed to record geocoding errors", zap.Error(err))
		return domain.SyncOutcome{}, err
	}

	// 6. Нет POI - карта не нужна
	if len(pois) == 0 {
		if existing != nil {
			if err := uc.mapRepo.Delete(ctx, itemID, existing.ID); err != nil {
				logger.Error("Failed to delete empty map", zap.Int64("map_id", existing.ID), zap.Error(err))
				return domain.SyncOutcome{}, fmt.Errorf("delete map: %w", err)
			}
			logger.Info("Map deleted, field has no valid POIs", zap.Int64("map_id", existing.ID))
		}
		// Шаг 6 намеренно не сводится к Success: если значения не
		// геокодировались, вызывающий получает SuccessWithErrors и список ошибок.
		return domain.NewSyncOutcome(errs), nil
	}

	// 7. Создание/замена карты
	m := existing
	if m == nil {
		m = domain.NewMap(atts)
	}
	m.ReplacePOIs(pois, field)

	if err := uc.mapRepo.Save(ctx, m, itemID); err != nil {
		logger.Error("Failed to save map", zap.Error(err))
		return domain.SyncOutcome{}, fmt.Errorf("save map: %w", err)
	}

	logger.Info("Map synchronized",
		zap.Int64("map_id", m.ID),
		zap.Int("pois", len(pois)),
		zap.Int("errors", len(errs)))

	return domain.NewSyncOutcome(errs), nil
}

// CollectPOIs строит POI для всех значений поля в порядке вставки.
// Возвращает успешные POI и сообщения об ошибках по отдельным значениям.
func (uc *MetaSyncUseCase) CollectPOIs(ctx context.Context, itemID int64, field string) ([]*domain.POI, []string, error) {
	values, err := uc.metaRepo.GetOrderedValues(ctx, itemID, field)
	if err != nil {
		uc.logger.Error("Failed to read metadata values",
			zap.Int64("item_id", itemID),
			zap.String("field", field),
			zap.Error(err))
		return nil, nil, fmt.Errorf("get metadata values: %w", err)
	}

	pois := make([]*domain.POI, 0, len(values))
	var errs []string

	for _, raw := range values {
		poi, err := uc.builder.Build(ctx, raw)
		if err != nil {
			var geoErr *domain.GeocodeError
			if !stderrors.As(err, &geoErr) {
				// Геокодер недоступен: карту не трогаем, проход повторит вызывающий
				uc.logger.Error("Geocoder unavailable, aborting pass",
					zap.Int64("item_id", itemID),
					zap.String("field", field),
					zap.Error(err))
				return nil, nil, fmt.Errorf("build poi: %w", err)
			}
			errs = append(errs, geoErr.Error())
			continue
		}
		pois = append(pois, poi)
	}

	return pois, errs, nil
}

func (uc *MetaSyncUseCase) recordErrors(ctx context.Context, itemID int64, errs []string) error {
	if uc.cfg.MetaKeyErrors == "" {
		return nil
	}
	if len(errs) == 0 {
		return uc.metaRepo.DeleteAllValues(ctx, itemID, uc.cfg.MetaKeyErrors)
	}
	return uc.metaRepo.ReplaceValues(ctx, itemID, uc.cfg.MetaKeyErrors, errs)
}

// GetItemMaps возвращает все сохраненные карты элемента
func (uc *MetaSyncUseCase) GetItemMaps(ctx context.Context, itemID int64) (*dto.ItemMapsResponse, error) {
	if itemID <= 0 {
		return nil, errors.ErrInvalidRequest
	}

	maps, err := uc.mapRepo.GetAllByItem(ctx, itemID)
	if err != nil {
		uc.logger.Error("Failed to get item maps", zap.Int64("item_id", itemID), zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return &dto.ItemMapsResponse{
		ItemID: itemID,
		Maps:   maps,
		Total:  len(maps),
	}, nil
}
