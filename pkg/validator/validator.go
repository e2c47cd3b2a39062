package validator

import (
	"time"
	"wardflow/internal/application/lifecycle"

	"github.com/go-playground/validator/v10"
)

var (
	// Validate - singleton экземпляр валидатора для переиспользования
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Регистрируем кастомные валидаторы
	_ = Validate.RegisterValidation("rfc3339", validateRFC3339)
	_ = Validate.RegisterValidation("stage", validateStage)
}

// validateRFC3339 проверяет, что строка является валидной RFC3339 датой
func validateRFC3339(fl validator.FieldLevel) bool {
	dateStr := fl.Field().String()
	if dateStr == "" {
		return false
	}
	_, err := time.Parse(time.RFC3339, dateStr)
	return err == nil
}

// validateStage - стадия должна быть одной из известных стадий призвания
func validateStage(fl validator.FieldLevel) bool {
	_, err := lifecycle.ParseStage(fl.Field().String())
	return err == nil
}
