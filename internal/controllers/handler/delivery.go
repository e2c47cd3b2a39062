package handler

import (
	"wardflow/internal/appers"
	"wardflow/internal/application/entity"

	"github.com/gofiber/fiber/v2"
)

// ListDeliveries godoc
// @Summary     Диагностика доставок тенанта
// @Description Последние записи доставки вместе с состоянием outbox
// @Produce     json
// @Param       tenantId path     string true  "ID тенанта"
// @Param       limit    query    int    false "Сколько записей вернуть (по умолчанию 50, максимум 500)"
// @Success     200      {array}  entity.DeliveryDiagnostic
// @Failure     400
// @tags        Delivery
// @Router      /v1/tenants/{tenantId}/deliveries [get]
func (h *HandlerImpl) ListDeliveries(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}

	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return badRequest(c, "limit must not be negative")
	}

	list, err := h.usecase.ListDeliveries(c.UserContext(), tenantID, limit)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	if list == nil {
		list = []entity.DeliveryDiagnostic{}
	}
	return c.Status(fiber.StatusOK).JSON(list)
}

// Redeliver godoc
// @Summary     Повторная доставка события
// @Description Только для processed/failed. Ревизия растёт, потребитель получит новый ключ идемпотентности.
// @Produce     json
// @Param       tenantId path     string true "ID тенанта"
// @Param       id       path     int    true "ID записи outbox"
// @Success     202      {object} entity.OutboxEntry
// @Failure     400
// @Failure     404
// @Failure     409
// @tags        Delivery
// @Router      /v1/tenants/{tenantId}/outbox/{id}/redeliver [post]
func (h *HandlerImpl) Redeliver(c *fiber.Ctx) error {
	tenantID, ok := uuidParam(c, "tenantId")
	if !ok {
		return nil
	}
	id, ok := int64Param(c, "id")
	if !ok {
		return nil
	}

	e, err := h.usecase.Redeliver(c.UserContext(), tenantID, id)
	if err != nil {
		return appers.SanitizeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(e)
}
