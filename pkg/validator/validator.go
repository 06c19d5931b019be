package validator

import (
	"eventplanner/internal/application/schedule"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Validate - единственный экземпляр валидатора, кэширует разбор тегов структур
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// в ошибках используем имена полей из json-тегов, как их видит клиент
	Validate.RegisterTagNameFunc(jsonFieldName)
	_ = Validate.RegisterValidation("hhmm", validateClock)
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// validateClock время суток H:MM / HH:MM; пустая строка не проходит
func validateClock(fl validator.FieldLevel) bool {
	return schedule.ValidClock(fl.Field().String())
}
