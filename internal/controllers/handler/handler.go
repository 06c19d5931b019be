package handler

import (
	"context"
	"errors"
	"eventplanner/internal/appers"
	"eventplanner/internal/application/common"
	"eventplanner/internal/application/entity"
	use_cases "eventplanner/internal/application/use-cases"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler interface {
	GetEvents(c *fiber.Ctx) error
	GetMyEvents(c *fiber.Ctx) error
	GetEvent(c *fiber.Ctx) error
	CreateEvent(c *fiber.Ctx) error
	UpdateEvent(c *fiber.Ctx) error
	DeleteEvent(c *fiber.Ctx) error
	HealthCheck(c *fiber.Ctx) error
}
type HandlerImpl struct {
	usecase use_cases.UseCaser
	logger  *zap.SugaredLogger
}

func NewEventHandler(usecase use_cases.UseCaser, logger *zap.SugaredLogger) *HandlerImpl {
	return &HandlerImpl{
		usecase: usecase,
		logger:  logger,
	}
}

// HealthCheck godoc
// @Summary     Проверка состояния сервиса
// @Description Проверяет доступность PostgreSQL и Kafka
// @Produce     json
// @Success     200   {object} entity.HealthCheckResponse "Все сервисы доступны"
// @Failure     503   {object} entity.HealthCheckResponse "Один или несколько сервисов недоступны"
// @tags        Health
// @Router      /health [get]
func (h *HandlerImpl) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	dbHealthy, kafkaHealthy, _ := h.usecase.HealthCheck(ctx)

	health := entity.NewHealthCheckResponse(common.Version, dbHealthy, kafkaHealthy)
	if !health.Status {
		return c.Status(fiber.StatusServiceUnavailable).JSON(health)
	}
	return c.Status(fiber.StatusOK).JSON(health)
}

// GetEvents godoc
// @Summary     Список событий
// @Description Все события либо события одного дня (date), отсортированы по дате и времени начала
// @Produce     json
// @Param       date  query    string false "Календарный день, YYYY-MM-DD"
// @Success     200   {object} entity.EventListResponse
// @Failure     400   {object} appers.ErrorBody
// @Failure     500   {object} appers.ErrorBody
// @tags        Event
// @Router      /api/v1/events [get]
func (h *HandlerImpl) GetEvents(c *fiber.Ctx) error {
	list, err := h.usecase.GetEvents(c.UserContext(), c.Query("date"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(list)
}

// GetMyEvents godoc
// @Summary     События текущего пользователя
// @Produce     json
// @Success     200   {object} entity.EventListResponse
// @Failure     401   {object} appers.ErrorBody
// @Failure     500   {object} appers.ErrorBody
// @Security    UserID
// @tags        Event
// @Router      /api/v1/events/my-events [get]
func (h *HandlerImpl) GetMyEvents(c *fiber.Ctx) error {
	list, err := h.usecase.GetUserEvents(c.UserContext(), UserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(list)
}

// GetEvent godoc
// @Summary     Событие по идентификатору
// @Produce     json
// @Param       id   path     string  true  "ID события"
// @Success     200  {object} entity.EventEnvelope
// @Failure     404  {object} appers.ErrorBody
// @Failure     500  {object} appers.ErrorBody
// @tags        Event
// @Router      /api/v1/events/{id} [get]
func (h *HandlerImpl) GetEvent(c *fiber.Ctx) error {
	evt, err := h.usecase.GetEvent(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(entity.EventEnvelope{Event: evt})
}

// CreateEvent godoc
// @Summary     Создание события
// @Description Создаёт событие; пересечение с событием того же дня отклоняется с 409
// @Accept      json
// @Produce     json
// @Param       body  body     entity.EventRequest  true  "Данные события"
// @Success     201   {object} entity.EventEnvelope
// @Failure     400   {object} appers.ErrorBody
// @Failure     401   {object} appers.ErrorBody
// @Failure     409   {object} appers.ErrorBody
// @Failure     500   {object} appers.ErrorBody
// @Security    UserID
// @tags        Event
// @Router      /api/v1/events [post]
func (h *HandlerImpl) CreateEvent(c *fiber.Ctx) error {
	var req entity.EventRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnf("error parsing body: %v", err)
		return appers.SanitizeError(c, appers.ErrInvalidBody)
	}

	evt, err := h.usecase.CreateEvent(c.UserContext(), UserID(c), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entity.EventEnvelope{Event: evt})
}

// UpdateEvent godoc
// @Summary     Изменение события
// @Description Частичное изменение; незаданные поля сохраняют текущие значения. Чужое событие - 404
// @Accept      json
// @Produce     json
// @Param       id    path     string               true  "ID события"
// @Param       body  body     entity.EventRequest  true  "Изменяемые поля"
// @Success     200   {object} entity.EventEnvelope
// @Failure     400   {object} appers.ErrorBody
// @Failure     401   {object} appers.ErrorBody
// @Failure     404   {object} appers.ErrorBody
// @Failure     409   {object} appers.ErrorBody
// @Failure     500   {object} appers.ErrorBody
// @Security    UserID
// @tags        Event
// @Router      /api/v1/events/{id} [put]
func (h *HandlerImpl) UpdateEvent(c *fiber.Ctx) error {
	var req entity.EventRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnf("error parsing body: %v", err)
		return appers.SanitizeError(c, appers.ErrInvalidBody)
	}

	evt, err := h.usecase.UpdateEvent(c.UserContext(), UserID(c), c.Params("id"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(entity.EventEnvelope{Event: evt})
}

// DeleteEvent godoc
// @Summary     Удаление события
// @Produce     json
// @Param       id   path     string  true  "ID события"
// @Success     200  {object} entity.MessageResponse
// @Failure     401  {object} appers.ErrorBody
// @Failure     404  {object} appers.ErrorBody
// @Failure     500  {object} appers.ErrorBody
// @Security    UserID
// @tags        Event
// @Router      /api/v1/events/{id} [delete]
func (h *HandlerImpl) DeleteEvent(c *fiber.Ctx) error {
	if err := h.usecase.DeleteEvent(c.UserContext(), UserID(c), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(entity.MessageResponse{Msg: "Event deleted successfully"})
}

func (h *HandlerImpl) fail(c *fiber.Ctx, err error) error {
	if !isClientError(err) {
		h.logger.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return appers.SanitizeError(c, err)
}

func isClientError(err error) bool {
	for _, target := range []error{appers.ErrValidation, appers.ErrNotFound, appers.ErrConflict, appers.ErrUnauthenticated} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
