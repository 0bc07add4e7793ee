package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/poi-mashup/internal/pkg/errors"
	"github.com/poi-mashup/internal/pkg/utils"
	"github.com/poi-mashup/internal/pkg/validator"
	"github.com/poi-mashup/internal/usecase"
	"github.com/poi-mashup/internal/usecase/dto"
	"go.uber.org/zap"
)

// MashupHandler - агрегация POI многих элементов в одну карту
type MashupHandler struct {
	mashupUC *usecase.MashupUseCase
	logger   *zap.Logger
}

// NewMashupHandler - создание нового MashupHandler
func NewMashupHandler(mashupUC *usecase.MashupUseCase, logger *zap.Logger) *MashupHandler {
	return &MashupHandler{
		mashupUC: mashupUC,
		logger:   logger,
	}
}

// GetMashup godoc
// @Summary Build mashup map (query string)
// @Description Собирает POI карт выбранных элементов: show=all|current|query
// @Tags Mashup
// @Produce json
// @Param show query string false "Режим выбора элементов" Enums(all, current, query)
// @Param show_query query string false "Спецификация запроса (key=value&key2=a,b)"
// @Param marker_title query string false "Заголовок маркера" Enums(post, marker)
// @Param marker_body query string false "Текст маркера" Enums(excerpt, marker, none)
// @Param marker_link query bool false "Ссылка на элемент"
// @Param current_ids query []int false "Элементы текущей страницы"
// @Success 200 {object} dto.MashupResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/mashup [get]
func (h *MashupHandler) GetMashup(c *fiber.Ctx) error {
	var req dto.MashupRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	return h.mashup(c, req)
}

// PostMashup godoc
// @Summary Build mashup map
// @Description Параметры мэшапа в JSON либо строкой атрибутов в поле shortcode
// @Tags Mashup
// @Accept json
// @Produce json
// @Param request body dto.MashupRequest true "Параметры мэшапа"
// @Success 200 {object} dto.MashupResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/mashup [post]
func (h *MashupHandler) PostMashup(c *fiber.Ctx) error {
	var req dto.MashupRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	return h.mashup(c, req)
}

func (h *MashupHandler) mashup(c *fiber.Ctx, req dto.MashupRequest) error {
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	start := time.Now()

	result, err := h.mashupUC.GetMashup(c.UserContext(), req)
	if err != nil {
		h.logger.Warn("Mashup failed", zap.String("show", req.Show), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.Total,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}
