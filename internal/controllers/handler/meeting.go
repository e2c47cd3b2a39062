package handler

import (
	"time"
	"wardflow/internal/appers"
	"wardflow/internal/application/entity"
	"wardflow/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

// CreateMeeting godoc
// @Summary     Создание собрания
// @Accept      json
// @Produce     json
// @Param       tenantId path     string                       true "ID тенанта"
// @Param       body     body     entity.CreateMeetingRequest  true "Собрание"
// @Success     201      {object} entity.Meeting
// @Failure     400
// @Failure     500
// @tags        Meeting
// @Router      /v1/tenants/{tenantId}/meetings [post]
func (h *HandlerImpl) CreateMeeting(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}

	var req entity.CreateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Errorf("error parsing body: %v", err)
		return badRequest(c, "invalid request body")
	}
	if err := validator.Validate.Struct(&req); err != nil {
		h.logger.Warnf("validation error: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(formatValidationErrors(err))
	}

	date, err := time.Parse(time.RFC3339, req.MeetingDate)
	if err != nil {
		return appers.SanitizeError(c, appers.ErrFormatDate)
	}

	m, err := h.usecase.CreateMeeting(c.UserContext(), tenantID, req.Title, date)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// CompleteMeeting godoc
// @Summary     Завершение собрания
// @Description Повторный вызов отклоняется с 409, новых событий не создаётся
// @Produce     json
// @Param       tenantId path     string true "ID тенанта"
// @Param       id       path     string true "ID собрания"
// @Success     200      {object} entity.Meeting
// @Failure     400
// @Failure     404
// @Failure     409
// @tags        Meeting
// @Router      /v1/tenants/{tenantId}/meetings/{id}/complete [post]
func (h *HandlerImpl) CompleteMeeting(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil
	}

	m, err := h.usecase.CompleteMeeting(c.UserContext(), tenantID, id)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(m)
}

// PublishMeeting godoc
// @Summary     Публикация программы собрания
// @Description Каждая публикация создаёт новую неизменяемую версию
// @Accept      json
// @Produce     json
// @Param       tenantId path     string                 true "ID тенанта"
// @Param       id       path     string                 true "ID собрания"
// @Param       body     body     entity.PublishRequest  true "Программа"
// @Success     201      {object} entity.PublishResult
// @Failure     400
// @Failure     404
// @Failure     409
// @tags        Meeting
// @Router      /v1/tenants/{tenantId}/meetings/{id}/publish [post]
func (h *HandlerImpl) PublishMeeting(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil
	}

	var req entity.PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validator.Validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(formatValidationErrors(err))
	}

	res, err := h.usecase.PublishMeeting(c.UserContext(), tenantID, id, req.Content)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// ListSnapshots godoc
// @Summary     История публикаций собрания
// @Produce     json
// @Param       tenantId path     string true "ID тенанта"
// @Param       id       path     string true "ID собрания"
// @Success     200      {array}  entity.PublishSnapshot
// @Failure     400
// @tags        Meeting
// @Router      /v1/tenants/{tenantId}/meetings/{id}/snapshots [get]
func (h *HandlerImpl) ListSnapshots(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil
	}

	list, err := h.usecase.ListSnapshots(c.UserContext(), tenantID, id)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	if list == nil {
		list = []entity.PublishSnapshot{}
	}
	return c.Status(fiber.StatusOK).JSON(list)
}

// LatestSnapshot godoc
// @Summary     Последняя опубликованная версия
// @Produce     json
// @Param       tenantId path     string true "ID тенанта"
// @Param       id       path     string true "ID собрания"
// @Success     200      {object} entity.PublishSnapshot
// @Failure     404
// @tags        Meeting
// @Router      /v1/tenants/{tenantId}/meetings/{id}/snapshots/latest [get]
func (h *HandlerImpl) LatestSnapshot(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil
	}

	s, err := h.usecase.LatestPublished(c.UserContext(), tenantID, id)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	if s == nil {
		return appers.SanitizeError(c, appers.ErrSnapshotNotFound)
	}
	return c.Status(fiber.StatusOK).JSON(s)
}

// GetSnapshot godoc
// @Summary     Конкретная версия публикации
// @Produce     json
// @Param       tenantId path     string true "ID тенанта"
// @Param       id       path     string true "ID собрания"
// @Param       version  path     int    true "Версия"
// @Success     200      {object} entity.PublishSnapshot
// @Failure     400
// @Failure     404
// @tags        Meeting
// @Router      /v1/tenants/{tenantId}/meetings/{id}/snapshots/{version} [get]
func (h *HandlerImpl) GetSnapshot(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil
	}
	version, ok := int64Param(c, "version")
	if !ok {
		return nil
	}

	s, err := h.usecase.GetSnapshot(c.UserContext(), tenantID, id, int(version))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(s)
}
