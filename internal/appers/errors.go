package appers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Kind уточняет причину ошибки валидации
type Kind string

const (
	KindMissingField      Kind = "missing-required-field"
	KindEmptyTitle        Kind = "empty-title"
	KindInvalidTimeFormat Kind = "invalid-time-format"
	KindInvalidDate       Kind = "invalid-date"
	KindEndBeforeStart    Kind = "end-before-start"
	KindTooLong           Kind = "field-too-long"
)

type ErrorResp struct {
	StatusCode int    `json:"statusCode,omitempty"`
	StatusDesc string `json:"statusDesc,omitempty"`
	Kind       Kind   `json:"kind,omitempty"`
}

func (e ErrorResp) Error() string {
	return e.StatusDesc
}

// Is сравнивает по статусу и, если у target задан Kind, по Kind.
// Текст сообщения в сравнении не участвует.
func (e ErrorResp) Is(target error) bool {
	t, ok := target.(ErrorResp)
	if !ok {
		return false
	}
	return t.StatusCode == e.StatusCode && (t.Kind == "" || t.Kind == e.Kind)
}

var (
	ErrValidation = ErrorResp{StatusCode: http.StatusBadRequest}
	ErrNotFound   = ErrorResp{StatusCode: http.StatusNotFound}
	ErrConflict   = ErrorResp{StatusCode: http.StatusConflict}

	ErrUnauthenticated = ErrorResp{
		StatusCode: http.StatusUnauthorized,
		StatusDesc: "Authentication invalid",
	}
	ErrInvalidBody = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "Invalid request body",
	}
	ErrMissingFields = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "Please provide title, date, startTime, and endTime",
		Kind:       KindMissingField,
	}
	ErrEmptyTitle = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "Title field cannot be empty",
		Kind:       KindEmptyTitle,
	}
	ErrTimeFormat = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "Please provide valid time format (HH:MM)",
		Kind:       KindInvalidTimeFormat,
	}
	ErrDateFormat = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "Please provide valid date (YYYY-MM-DD)",
		Kind:       KindInvalidDate,
	}
	ErrEndBeforeStart = ErrorResp{
		StatusCode: http.StatusBadRequest,
		StatusDesc: "End time must be after start time",
		Kind:       KindEndBeforeStart,
	}
)

func NewValidationError(kind Kind, desc string) ErrorResp {
	return ErrorResp{StatusCode: http.StatusBadRequest, StatusDesc: desc, Kind: kind}
}

func NewEventNotFound(id string) ErrorResp {
	return ErrorResp{StatusCode: http.StatusNotFound, StatusDesc: fmt.Sprintf("No event with id %s", id)}
}

func NewOverlapConflict(title, startTime, endTime string) ErrorResp {
	return ErrorResp{
		StatusCode: http.StatusConflict,
		StatusDesc: fmt.Sprintf("Event overlaps with existing event %q (%s - %s)", title, startTime, endTime),
	}
}

// ErrorBody тело ответа с ошибкой
type ErrorBody struct {
	Message string `json:"message" example:"End time must be after start time"`
	Kind    Kind   `json:"kind,omitempty" example:"end-before-start"`
}

func SanitizeError(c *fiber.Ctx, err error) error {
	var errResp ErrorResp

	if ok := errors.As(err, &errResp); ok {
		return c.Status(errResp.StatusCode).JSON(ErrorBody{Message: errResp.StatusDesc, Kind: errResp.Kind})
	}
	return NewErr(c, http.StatusInternalServerError, err)
}

func NewErr(ctx *fiber.Ctx, status int, err error) error {
	return ctx.Status(status).JSON(ErrorBody{Message: err.Error()})
}
