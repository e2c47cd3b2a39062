package handler

import (
	"wardflow/internal/appers"
	"wardflow/internal/application/entity"
	"wardflow/internal/application/lifecycle"
	"wardflow/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"
)

// CreateAssignment godoc
// @Summary     Создание назначения на призвание
// @Description Создаёт назначение в стадии proposed
// @Accept      json
// @Produce     json
// @Param       tenantId path     string                          true "ID тенанта"
// @Param       body     body     entity.CreateAssignmentRequest  true "Член и призвание"
// @Success     201      {object} entity.CallingAssignment
// @Failure     400
// @Failure     500
// @tags        Calling
// @Router      /v1/tenants/{tenantId}/callings [post]
func (h *HandlerImpl) CreateAssignment(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}

	var req entity.CreateAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Errorf("error parsing body: %v", err)
		return badRequest(c, "invalid request body")
	}
	if err := validator.Validate.Struct(&req); err != nil {
		h.logger.Warnf("validation error: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(formatValidationErrors(err))
	}

	a, err := h.usecase.CreateAssignment(c.UserContext(), tenantID, req.MemberName, req.PositionName)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// GetAssignment godoc
// @Summary     Назначение и журнал его переходов
// @Produce     json
// @Param       tenantId path     string true "ID тенанта"
// @Param       id       path     string true "ID назначения"
// @Success     200      {object} entity.CallingAssignmentDetails
// @Failure     400
// @Failure     404
// @tags        Calling
// @Router      /v1/tenants/{tenantId}/callings/{id} [get]
func (h *HandlerImpl) GetAssignment(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil
	}

	details, err := h.usecase.GetAssignment(c.UserContext(), tenantID, id)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(details)
}

// ApplyTransition godoc
// @Summary     Переход назначения на следующую стадию
// @Description from - стадия, которую видел клиент. Если она устарела, вернётся 409.
// @Accept      json
// @Produce     json
// @Param       tenantId path     string                    true "ID тенанта"
// @Param       id       path     string                    true "ID назначения"
// @Param       body     body     entity.TransitionRequest  true "Переход"
// @Success     200      {object} entity.CallingTransition
// @Failure     400
// @Failure     404
// @Failure     409
// @tags        Calling
// @Router      /v1/tenants/{tenantId}/callings/{id}/transitions [post]
func (h *HandlerImpl) ApplyTransition(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil
	}

	var req entity.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validator.Validate.Struct(&req); err != nil {
		h.logger.Warnf("validation error: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(formatValidationErrors(err))
	}

	// стадии уже проверены валидатором
	from, _ := lifecycle.ParseStage(req.From)
	to, _ := lifecycle.ParseStage(req.To)

	in := entity.TransitionInput{Instruction: req.Instruction}
	if req.MeetingID != "" {
		in.MeetingID = uuid.NullUUID{UUID: uuid.FromStringOrNil(req.MeetingID), Valid: true}
	}

	rec, err := h.usecase.ApplyTransition(c.UserContext(), tenantID, id, from, to, in)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(rec)
}

// SustainCalling godoc
// @Summary     Поддержка призвания на собрании (extended -> sustained)
// @Accept      json
// @Produce     json
// @Param       tenantId path     string                 true "ID тенанта"
// @Param       id       path     string                 true "ID назначения"
// @Param       body     body     entity.SustainRequest  true "Собрание"
// @Success     200      {object} entity.CallingTransition
// @Failure     400
// @Failure     404
// @Failure     409
// @tags        Calling
// @Router      /v1/tenants/{tenantId}/callings/{id}/sustain [post]
func (h *HandlerImpl) SustainCalling(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil
	}

	var req entity.SustainRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validator.Validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(formatValidationErrors(err))
	}

	rec, err := h.usecase.SustainCalling(c.UserContext(), tenantID, id, uuid.FromStringOrNil(req.MeetingID))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(rec)
}

// SetApartCalling godoc
// @Summary     Посвящение (sustained -> set_apart)
// @Accept      json
// @Produce     json
// @Param       tenantId path     string                  true "ID тенанта"
// @Param       id       path     string                  true "ID назначения"
// @Param       body     body     entity.SetApartRequest  true "Инструкция"
// @Success     200      {object} entity.CallingTransition
// @Failure     400
// @Failure     404
// @Failure     409
// @tags        Calling
// @Router      /v1/tenants/{tenantId}/callings/{id}/set-apart [post]
func (h *HandlerImpl) SetApartCalling(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil
	}

	var req entity.SetApartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validator.Validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(formatValidationErrors(err))
	}

	rec, err := h.usecase.SetApartCalling(c.UserContext(), tenantID, id, req.Instruction)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(rec)
}

// ScheduleRelease godoc
// @Summary     Освобождение от призвания в делах собрания
// @Description Объявление уйдёт событием calling.release_announced при завершении собрания
// @Accept      json
// @Produce     json
// @Param       tenantId path     string                 true "ID тенанта"
// @Param       id       path     string                 true "ID назначения"
// @Param       body     body     entity.ReleaseRequest  true "Собрание"
// @Success     201      {object} entity.BusinessLine
// @Failure     400
// @Failure     404
// @Failure     409
// @tags        Calling
// @Router      /v1/tenants/{tenantId}/callings/{id}/release [post]
func (h *HandlerImpl) ScheduleRelease(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return nil
	}

	var req entity.ReleaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := validator.Validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(formatValidationErrors(err))
	}

	line, err := h.usecase.ScheduleRelease(c.UserContext(), tenantID, id, uuid.FromStringOrNil(req.MeetingID))
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}
