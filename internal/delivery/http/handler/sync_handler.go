package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-mashup/internal/pkg/errors"
	"github.com/poi-mashup/internal/pkg/utils"
	"github.com/poi-mashup/internal/pkg/validator"
	"github.com/poi-mashup/internal/usecase"
	"github.com/poi-mashup/internal/usecase/dto"
	"go.uber.org/zap"
)

// SyncHandler - синхронизация полей метаданных с картами и события хоста
type SyncHandler struct {
	syncUC *usecase.MetaSyncUseCase
	logger *zap.Logger
}

// NewSyncHandler - создание нового SyncHandler
func NewSyncHandler(syncUC *usecase.MetaSyncUseCase, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		syncUC: syncUC,
		logger: logger,
	}
}

// Synchronize godoc
// @Summary Synchronize metadata field with map
// @Description Разбирает значения поля, геокодирует их и создает, обновляет или удаляет карту элемента
// @Tags Sync
// @Accept json
// @Produce json
// @Param id path int true "Content item ID"
// @Param request body dto.SyncRequest true "Поле и режим обновления"
// @Success 200 {object} dto.SyncResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/items/{id}/sync [post]
func (h *SyncHandler) Synchronize(c *fiber.Ctx) error {
	itemID, err := itemIDParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.SyncRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	outcome, err := h.syncUC.Synchronize(c.UserContext(), itemID, req.Field, req.AllowUpdate)
	if err != nil {
		h.logger.Error("Synchronization failed",
			zap.Int64("item_id", itemID),
			zap.String("field", req.Field),
			zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.SyncResponse{
		ItemID:  itemID,
		Field:   req.Field,
		Outcome: outcome,
	}, nil)
}

// ItemSaved godoc
// @Summary Content item saved event
// @Description Синхронизация настроенного поля при сохранении элемента; ревизии игнорируются
// @Tags Sync
// @Accept json
// @Produce json
// @Param request body dto.ItemSavedRequest true "Событие сохранения"
// @Success 200 {object} dto.SyncResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/events/item-saved [post]
func (h *SyncHandler) ItemSaved(c *fiber.Ctx) error {
	var req dto.ItemSavedRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	outcome, err := h.syncUC.OnItemSaved(c.UserContext(), req.ItemID, req.Revision)
	if err != nil {
		h.logger.Error("Item saved sync failed", zap.Int64("item_id", req.ItemID), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.SyncResponse{
		ItemID:  req.ItemID,
		Outcome: outcome,
	}, nil)
}

// MetaChanged godoc
// @Summary Metadata field changed event
// @Description Синхронизация при изменении поля метаданных (только для настроенного поля)
// @Tags Sync
// @Accept json
// @Produce json
// @Param request body dto.MetaChangedRequest true "Событие изменения поля"
// @Success 200 {object} dto.SyncResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/events/meta-changed [post]
func (h *SyncHandler) MetaChanged(c *fiber.Ctx) error {
	var req dto.MetaChangedRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	outcome, err := h.syncUC.OnFieldChanged(c.UserContext(), req.ItemID, req.Field)
	if err != nil {
		h.logger.Error("Meta changed sync failed",
			zap.Int64("item_id", req.ItemID),
			zap.String("field", req.Field),
			zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.SyncResponse{
		ItemID:  req.ItemID,
		Field:   req.Field,
		Outcome: outcome,
	}, nil)
}

// GetItemMaps godoc
// @Summary Get item maps
// @Tags Maps
// @Produce json
// @Param id path int true "Content item ID"
// @Success 200 {object} dto.ItemMapsResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/items/{id}/maps [get]
func (h *SyncHandler) GetItemMaps(c *fiber.Ctx) error {
	itemID, err := itemIDParam(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.syncUC.GetItemMaps(c.UserContext(), itemID)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Total,
	})
}

func itemIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{"id": c.Params("id")})
	}
	return id, nil
}
