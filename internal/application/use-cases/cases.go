package use_cases

import (
	"context"
	"encoding/json"
	"eventplanner/internal/application/entity"
	"eventplanner/internal/application/service"
	"eventplanner/pkg/config"
	"eventplanner/pkg/validator"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type UseCaser interface {
	CreateEvent(ctx context.Context, userID string, req entity.EventRequest) (entity.EventResponse, error)
	GetEvent(ctx context.Context, id string) (entity.EventResponse, error)
	GetEvents(ctx context.Context, date string) (entity.EventListResponse, error)
	GetUserEvents(ctx context.Context, userID string) (entity.EventListResponse, error)
	UpdateEvent(ctx context.Context, userID, id string, req entity.EventRequest) (entity.EventResponse, error)
	DeleteEvent(ctx context.Context, userID, id string) error
	DeleteOldEventsByYear(ctx context.Context)
	RunRelay(ctx context.Context)
	ConsumerMessage(ctx context.Context, msg []byte, msgTime time.Time) error

	HealthCheck(ctx context.Context) (dbHealthy bool, kafkaHealthy bool, err error)
}
type UseCase struct {
	service service.Service
	logger  *zap.SugaredLogger
	conf    *config.Config
}

func NewUseCase(service service.Service, logger *zap.SugaredLogger, conf *config.Config) *UseCase {
	return &UseCase{
		service: service,
		logger:  logger,
		conf:    conf,
	}
}

func (u *UseCase) HealthCheck(ctx context.Context) (dbHealthy bool, kafkaHealthy bool, err error) {
	return u.service.HealthCheck(ctx)
}

func (u *UseCase) CreateEvent(ctx context.Context, userID string, req entity.EventRequest) (entity.EventResponse, error) {
	u.logger.Debugf("[user: %s] CreateEvent started", userID)
	evt, err := u.service.CreateEvent(ctx, userID, req)
	if err != nil {
		return entity.EventResponse{}, err
	}
	return evt.Response(), nil
}

func (u *UseCase) GetEvent(ctx context.Context, id string) (entity.EventResponse, error) {
	u.logger.Debugf("[event: %s] GetEvent started", id)
	evt, err := u.service.GetEvent(ctx, id)
	if err != nil {
		return entity.EventResponse{}, err
	}
	return evt.Response(), nil
}

func (u *UseCase) GetEvents(ctx context.Context, date string) (entity.EventListResponse, error) {
	u.logger.Debugf("[date: %q] GetEvents started", date)
	events, err := u.service.GetEventsByDate(ctx, date)
	if err != nil {
		return entity.EventListResponse{}, err
	}
	return entity.NewEventList(events), nil
}

func (u *UseCase) GetUserEvents(ctx context.Context, userID string) (entity.EventListResponse, error) {
	u.logger.Debugf("[user: %s] GetUserEvents started", userID)
	events, err := u.service.GetUserEvents(ctx, userID)
	if err != nil {
		return entity.EventListResponse{}, err
	}
	return entity.NewEventList(events), nil
}

func (u *UseCase) UpdateEvent(ctx context.Context, userID, id string, req entity.EventRequest) (entity.EventResponse, error) {
	u.logger.Debugf("[event: %s] UpdateEvent started", id)
	evt, err := u.service.UpdateEvent(ctx, userID, id, req)
	if err != nil {
		return entity.EventResponse{}, err
	}
	return evt.Response(), nil
}

func (u *UseCase) DeleteEvent(ctx context.Context, userID, id string) error {
	u.logger.Debugf("[event: %s] DeleteEvent started", id)
	return u.service.DeleteEvent(ctx, userID, id)
}

func (u *UseCase) DeleteOldEventsByYear(ctx context.Context) {
	days := u.conf.Cron.DaysToDelete
	u.logger.Infof("DeleteOldEventsByYear called with daysToDelete=%d", days)
	u.service.DeleteOldEventsByYear(ctx, &days)
}

func (u *UseCase) RunRelay(ctx context.Context) {
	u.logger.Debug("relay started")
	u.service.RelayEventRun(ctx)
}

// ConsumerMessage сохраняет профиль пользователя из топика ReaderTopic.
func (u *UseCase) ConsumerMessage(ctx context.Context, msg []byte, msgTime time.Time) error {
	u.logger.Debugf("consumer message: %s, time: %v", msg, msgTime)

	var user entity.User
	if err := json.Unmarshal(msg, &user); err != nil {
		return fmt.Errorf("decode user message: %w", err)
	}
	if err := validator.Validate.Struct(&user); err != nil {
		return fmt.Errorf("invalid user message: %w", err)
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = msgTime
	}

	return u.service.SaveUser(ctx, &user)
}
