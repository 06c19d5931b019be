package service

import (
	"errors"
	"eventplanner/internal/appers"
	"eventplanner/internal/application/common"
	"eventplanner/internal/application/entity"
	"eventplanner/internal/application/schedule"
	"eventplanner/pkg/validator"
	"fmt"
	"strings"

	playgroundvalidator "github.com/go-playground/validator/v10"
)

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// newEventDraft собирает новое событие из запроса на создание
func newEventDraft(req entity.EventRequest, userID string) (*entity.Event, error) {
	if isBlank(req.Title) || isBlank(req.Date) || isBlank(req.StartTime) || isBlank(req.EndTime) {
		return nil, appers.ErrMissingFields
	}

	draft := &entity.Event{CreatedBy: userID}
	if err := applyRequest(draft, req); err != nil {
		return nil, err
	}
	return draft, nil
}

// mergeEvent накладывает частичное изменение на сохранённое событие.
// Незаданные поля берутся из existing.
func mergeEvent(existing *entity.Event, req entity.EventRequest) (*entity.Event, error) {
	merged := *existing
	if err := applyRequest(&merged, req); err != nil {
		return nil, err
	}
	return &merged, nil
}

func applyRequest(e *entity.Event, req entity.EventRequest) error {
	if title := common.TrimPtr(req.Title); title != nil {
		e.Title = *title
	}
	if description := common.TrimPtr(req.Description); description != nil {
		e.Description = *description
	}
	if req.Date != nil {
		date, err := schedule.ParseDate(*req.Date)
		if err != nil {
			return appers.ErrDateFormat
		}
		e.Date = date
	}
	if req.StartTime != nil {
		start, err := schedule.NormalizeClock(*req.StartTime)
		if err != nil {
			return appers.ErrTimeFormat
		}
		e.StartTime = start
	}
	if req.EndTime != nil {
		end, err := schedule.NormalizeClock(*req.EndTime)
		if err != nil {
			return appers.ErrTimeFormat
		}
		e.EndTime = end
	}
	return nil
}

// validateEvent единственная проверка события перед записью в БД (create и update)
func validateEvent(e *entity.Event) error {
	if err := validator.Validate.Struct(e); err != nil {
		return translateValidationError(err)
	}
	if schedule.TimeToMinutes(e.EndTime) <= schedule.TimeToMinutes(e.StartTime) {
		return appers.ErrEndBeforeStart
	}
	return nil
}

func translateValidationError(err error) error {
	var verrs playgroundvalidator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return appers.NewValidationError(appers.KindMissingField, fmt.Sprintf("Please provide event %s", fe.Field()))
	case "hhmm":
		return appers.ErrTimeFormat
	case "max":
		return appers.NewValidationError(appers.KindTooLong,
			fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	default:
		return appers.NewValidationError(appers.Kind(fe.Tag()), fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
