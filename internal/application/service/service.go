package service

import (
	"context"
	"encoding/json"
	"errors"
	"eventplanner/internal/appers"
	"eventplanner/internal/application/entity"
	"eventplanner/internal/application/repo"
	"eventplanner/internal/application/schedule"
	"eventplanner/internal/transport/producer"
	"eventplanner/pkg/config"
	"eventplanner/pkg/metrics"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateEvent(ctx context.Context, userID string, req entity.EventRequest) (*entity.Event, error)
	UpdateEvent(ctx context.Context, userID, id string, req entity.EventRequest) (*entity.Event, error)
	DeleteEvent(ctx context.Context, userID, id string) error
	GetEvent(ctx context.Context, id string) (*entity.Event, error)
	GetEventsByDate(ctx context.Context, date string) ([]*entity.Event, error)
	GetUserEvents(ctx context.Context, userID string) ([]*entity.Event, error)
	CheckOverlap(ctx context.Context, date time.Time, slot schedule.Slot, excludeID uuid.UUID, owner string) (entity.OverlapResult, error)

	SaveUser(ctx context.Context, u *entity.User) error
	DeleteOldEventsByYear(ctx context.Context, days *int)
	RelayEventRun(ctx context.Context)

	HealthCheck(ctx context.Context) (dbHealthy bool, kafkaHealthy bool, err error)
}

// UserDirectory внешний справочник пользователей, используется когда имени автора нет в users
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*entity.User, error)
}

type ServiceImpl struct {
	repo          repo.Repo
	transactions  repo.Transactions
	kafkaProducer producer.Producer
	users         UserDirectory
	logger        *zap.SugaredLogger
	cfg           *config.RelayConfig
	overlapScope  string
	m             *metrics.Metrics
}

// NewService users может быть nil: тогда имя автора берётся только из локальной таблицы users
func NewService(repo repo.Repo, transactions repo.Transactions, kafkaProducer producer.Producer, users UserDirectory,
	logger *zap.SugaredLogger, cfg *config.Config, m *metrics.Metrics) *ServiceImpl {
	return &ServiceImpl{
		repo:          repo,
		transactions:  transactions,
		kafkaProducer: kafkaProducer,
		users:         users,
		logger:        logger,
		cfg:           &cfg.Realay,
		overlapScope:  cfg.Overlap.Scope,
		m:             m,
	}
}

// HealthCheck проверяет доступность БД и Kafka
func (s *ServiceImpl) HealthCheck(ctx context.Context) (dbHealthy bool, kafkaHealthy bool, err error) {
	dbErr := s.repo.HealthCheck(ctx)
	dbHealthy = dbErr == nil

	kafkaErr := s.kafkaProducer.HealthCheck(ctx)
	kafkaHealthy = kafkaErr == nil

	// ошибку возвращаем только если обе проверки провалились
	if !dbHealthy && !kafkaHealthy {
		return dbHealthy, kafkaHealthy, fmt.Errorf("database: %v, kafka: %v", dbErr, kafkaErr)
	}

	return dbHealthy, kafkaHealthy, nil
}

func (s *ServiceImpl) CreateEvent(ctx context.Context, userID string, req entity.EventRequest) (_ *entity.Event, err error) {
	s.logger.Debugf("[user: %s] CreateEvent started", userID)
	defer func() { s.countMutation("create", err) }()

	draft, err := newEventDraft(req, userID)
	if err != nil {
		return nil, err
	}
	if err := validateEvent(draft); err != nil {
		return nil, err
	}

	var created *entity.Event
	err = s.transactions.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureNoOverlap(ctx, "create", draft); err != nil {
			return err
		}

		var err error
		if created, err = s.repo.CreateEvent(ctx, draft); err != nil {
			return err
		}
		return s.enqueue(ctx, entity.EventCreated, created)
	})
	if err != nil {
		return nil, err
	}

	s.resolveCreatorNames(ctx, created)
	s.logger.Infof("[event: %s] created by %s on %s %s-%s",
		created.ID, userID, created.Date.Format(schedule.DateLayout), created.StartTime, created.EndTime)
	return created, nil
}

func (s *ServiceImpl) UpdateEvent(ctx context.Context, userID, id string, req entity.EventRequest) (_ *entity.Event, err error) {
	s.logger.Debugf("[event: %s] UpdateEvent started by %s", id, userID)
	defer func() { s.countMutation("update", err) }()

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, appers.ErrEmptyTitle
	}

	eventID, err := parseEventID(id)
	if err != nil {
		return nil, err
	}

	var updated *entity.Event
	err = s.transactions.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetOwnedEvent(ctx, eventID, userID)
		if err != nil {
			return err
		}

		merged, err := mergeEvent(existing, req)
		if err != nil {
			return err
		}
		if err := validateEvent(merged); err != nil {
			return err
		}
		if err := s.ensureNoOverlap(ctx, "update", merged); err != nil {
			return err
		}

		if updated, err = s.repo.UpdateOwnedEvent(ctx, merged); err != nil {
			return err
		}
		return s.enqueue(ctx, entity.EventUpdated, updated)
	})
	if err != nil {
		return nil, err
	}

	s.resolveCreatorNames(ctx, updated)
	s.logger.Infof("[event: %s] updated by %s", updated.ID, userID)
	return updated, nil
}

func (s *ServiceImpl) DeleteEvent(ctx context.Context, userID, id string) (err error) {
	s.logger.Debugf("[event: %s] DeleteEvent started by %s", id, userID)
	defer func() { s.countMutation("delete", err) }()

	eventID, err := parseEventID(id)
	if err != nil {
		return err
	}

	err = s.transactions.WithinTransaction(ctx, func(ctx context.Context) error {
		deleted, err := s.repo.DeleteOwnedEvent(ctx, eventID, userID)
		if err != nil {
			return err
		}
		return s.enqueue(ctx, entity.EventDeleted, deleted)
	})
	if err != nil {
		return err
	}

	s.logger.Infof("[event: %s] deleted by %s", id, userID)
	return nil
}

func (s *ServiceImpl) GetEvent(ctx context.Context, id string) (*entity.Event, error) {
	s.logger.Debugf("[event: %s] GetEvent started", id)

	eventID, err := parseEventID(id)
	if err != nil {
		return nil, err
	}

	evt, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	s.resolveCreatorNames(ctx, evt)
	return evt, nil
}

// GetEventsByDate пустая дата - все события, иначе события одного календарного дня
func (s *ServiceImpl) GetEventsByDate(ctx context.Context, date string) ([]*entity.Event, error) {
	s.logger.Debugf("[date: %q] GetEventsByDate started", date)

	var filter entity.EventFilter
	if date = strings.TrimSpace(date); date != "" {
		day, err := schedule.ParseDate(date)
		if err != nil {
			return nil, appers.ErrDateFormat
		}
		from, to := schedule.DayWindow(day)
		filter.From, filter.To = &from, &to
	}

	events, err := s.repo.GetEvents(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.resolveCreatorNames(ctx, events...)
	return events, nil
}

func (s *ServiceImpl) GetUserEvents(ctx context.Context, userID string) ([]*entity.Event, error) {
	s.logger.Debugf("[user: %s] GetUserEvents started", userID)

	events, err := s.repo.GetEvents(ctx, entity.EventFilter{CreatedBy: userID})
	if err != nil {
		return nil, err
	}
	s.resolveCreatorNames(ctx, events...)
	return events, nil
}

// CheckOverlap ищет первое событие того же дня, пересекающееся со slot.
// Кандидаты упорядочены по start_time, id, поэтому результат детерминирован.
// owner != "" ограничивает кандидатов событиями этого автора.
func (s *ServiceImpl) CheckOverlap(ctx context.Context, date time.Time, slot schedule.Slot, excludeID uuid.UUID, owner string) (entity.OverlapResult, error) {
	from, to := schedule.DayWindow(date)
	candidates, err := s.repo.GetEvents(ctx, entity.EventFilter{
		From:      &from,
		To:        &to,
		CreatedBy: owner,
		ExcludeID: excludeID,
	})
	if err != nil {
		return entity.OverlapResult{}, fmt.Errorf("load events for overlap check: %w", err)
	}

	i := schedule.FindOverlap(candidates, slot, func(e *entity.Event) schedule.Slot {
		return schedule.Slot{StartTime: e.StartTime, EndTime: e.EndTime}
	})
	if i < 0 {
		return entity.OverlapResult{}, nil
	}
	return entity.OverlapResult{HasOverlap: true, ConflictingEvent: candidates[i]}, nil
}

// ensureNoOverlap вызывается внутри транзакции: блокировка дня держится до commit,
// поэтому проверка и запись для одного дня не перемежаются
func (s *ServiceImpl) ensureNoOverlap(ctx context.Context, op string, evt *entity.Event) error {
	if err := s.repo.LockDay(ctx, evt.Date); err != nil {
		return err
	}

	owner := ""
	if s.overlapScope == config.OverlapScopeOwner {
		owner = evt.CreatedBy
	}

	res, err := s.CheckOverlap(ctx, evt.Date, schedule.Slot{StartTime: evt.StartTime, EndTime: evt.EndTime}, evt.ID, owner)
	if err != nil {
		return err
	}
	if !res.HasOverlap {
		return nil
	}

	if s.m != nil {
		s.m.Events.ConflictsTotal.WithLabelValues(op).Inc()
	}
	c := res.ConflictingEvent
	s.logger.Infof("[event: %s] %s rejected: overlaps %s (%s - %s) on %s",
		evt.ID, op, c.ID, c.StartTime, c.EndTime, evt.Date.Format(schedule.DateLayout))
	return appers.NewOverlapConflict(c.Title, c.StartTime, c.EndTime)
}

// enqueue пишет сообщение в outbox в той же транзакции, что и изменение события
func (s *ServiceImpl) enqueue(ctx context.Context, eventType entity.OutboxEventType, evt *entity.Event) error {
	payload, err := json.Marshal(entity.EventMessage{
		Type:       eventType,
		Event:      evt.Response(),
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Errorf("[event: %s] failed to marshal %s message: %v", evt.ID, eventType, err)
		return fmt.Errorf("failed to marshal event message: %w", err)
	}

	return s.repo.InsertOutbox(ctx, &entity.OutboxEvent{
		AggregateID:   evt.ID,
		AggregateType: entity.AggregateEvent,
		EventType:     eventType,
		Payload:       payload,
		Status:        entity.OutboxNew,
	})
}

func (s *ServiceImpl) DeleteOldEventsByYear(ctx context.Context, days *int) {
	if days != nil {
		s.logger.Debugf("[days: %d] DeleteOldEventsByYear started", *days)
	}

	if err := s.repo.DeleteOldEvents(ctx, days); err != nil {
		s.logger.Errorf("delete old events failed: %v", err)
	}
}

func (s *ServiceImpl) countMutation(op string, err error) {
	if s.m == nil {
		return
	}
	s.m.Events.MutationsTotal.WithLabelValues(op, mutationResult(err)).Inc()
}

func mutationResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, appers.ErrValidation):
		return "validation"
	case errors.Is(err, appers.ErrNotFound):
		return "not_found"
	case errors.Is(err, appers.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}

// parseEventID некорректный id неотличим от отсутствующего события
func parseEventID(id string) (uuid.UUID, error) {
	eventID, err := uuid.FromString(strings.TrimSpace(id))
	if err != nil || eventID == uuid.Nil {
		return uuid.Nil, appers.NewEventNotFound(id)
	}
	return eventID, nil
}
