package handler

import (
	"context"
	"fmt"
	"strconv"
	"time"
	"wardflow/internal/appers"
	"wardflow/internal/application/common"
	"wardflow/internal/application/entity"
	use_cases "wardflow/internal/application/use-cases"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type Handler interface {
	CreateAssignment(c *fiber.Ctx) error
	GetAssignment(c *fiber.Ctx) error
	ApplyTransition(c *fiber.Ctx) error
	SustainCalling(c *fiber.Ctx) error
	SetApartCalling(c *fiber.Ctx) error
	ScheduleRelease(c *fiber.Ctx) error

	CreateMeeting(c *fiber.Ctx) error
	CompleteMeeting(c *fiber.Ctx) error
	PublishMeeting(c *fiber.Ctx) error
	ListSnapshots(c *fiber.Ctx) error
	LatestSnapshot(c *fiber.Ctx) error
	GetSnapshot(c *fiber.Ctx) error

	ListDeliveries(c *fiber.Ctx) error
	Redeliver(c *fiber.Ctx) error

	HealthCheck(c *fiber.Ctx) error
}
type HandlerImpl struct {
	usecase use_cases.UseCaser
	logger  *zap.SugaredLogger
}

func NewHandler(usecase use_cases.UseCaser, logger *zap.SugaredLogger) *HandlerImpl {
	return &HandlerImpl{
		usecase: usecase,
		logger:  logger,
	}
}

// formatValidationErrors форматирует ошибки валидации в понятный формат для клиента
func formatValidationErrors(err error) fiber.Map {
	var errors []string
	if validationErrors, ok := err.(playgroundvalidator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			tag := e.Tag()
			var message string
			switch tag {
			case "required":
				message = fmt.Sprintf("поле '%s' обязательно для заполнения", field)
			case "min":
				message = fmt.Sprintf("поле '%s' должно содержать минимум %s символов", field, e.Param())
			case "max":
				message = fmt.Sprintf("поле '%s' должно содержать максимум %s символов", field, e.Param())
			case "rfc3339":
				message = fmt.Sprintf("поле '%s' должно быть в формате RFC3339 (например, 2026-01-20T15:00:00Z)", field)
			case "uuid":
				message = fmt.Sprintf("поле '%s' должно быть UUID", field)
			case "stage":
				message = fmt.Sprintf("поле '%s' должно быть одной из стадий: proposed, extended, sustained, set_apart", field)
			default:
				message = fmt.Sprintf("поле '%s' не прошло валидацию: %s", field, tag)
			}
			errors = append(errors, message)
		}
	} else {
		errors = append(errors, err.Error())
	}
	return fiber.Map{
		"error":   "validation failed",
		"details": errors,
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// uuidParam - uuid из пути; при ok=false ответ 400 уже записан
func uuidParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Params(name))
	if err != nil || id.IsNil() {
		_ = appers.SanitizeError(c, appers.ErrBadID)
		return uuid.Nil, false
	}
	return id, true
}

func int64Param(c *fiber.Ctx, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || v <= 0 {
		_ = badRequest(c, fmt.Sprintf("%s must be a positive integer", name))
		return 0, false
	}
	return v, true
}

// HealthCheck godoc
// @Summary     Проверка состояния сервиса
// @Description Проверяет доступность PostgreSQL и, если она настроена, Kafka.
// @Produce     json
// @Success     200   {object} entity.HealthCheckResponse "Все сервисы доступны"
// @Failure     503   {object} entity.HealthCheckResponse "Один или несколько сервисов недоступны"
// @tags        Health
// @Router      /health [get]
func (h *HandlerImpl) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	st := h.usecase.HealthCheck(ctx)

	resp := entity.HealthCheckResponse{
		Status:  true,
		Message: "success",
		Version: common.Version,
		Checks: entity.HealthCheckResponseData{
			Database: entity.HealthCheckItem{Status: st.DBHealthy, Type: "postgresql"},
			Kafka:    entity.HealthCheckItem{Status: true, Type: "kafka"},
		},
	}
	if !st.DBHealthy {
		resp.Checks.Database.Error = "Database connection failed"
	}
	if st.KafkaEnabled && !st.KafkaHealthy {
		resp.Checks.Kafka.Status = false
		resp.Checks.Kafka.Error = "Kafka connection failed"
	}
	if !st.KafkaEnabled {
		resp.Checks.Kafka.Type = "kafka (disabled)"
	}

	if !resp.Checks.Database.Status || !resp.Checks.Kafka.Status {
		resp.Status = false
		resp.Message = "Some services are unavailable"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

