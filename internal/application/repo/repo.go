package repo

import (
	"context"
	"errors"
	"eventplanner/internal/appers"
	"eventplanner/internal/application/entity"
	"eventplanner/internal/application/schedule"
	"eventplanner/pkg/db"
	"eventplanner/pkg/metrics"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	defaultDeleteDays = 365
)

type Repo interface {
	CreateEvent(ctx context.Context, evt *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetOwnedEvent(ctx context.Context, id uuid.UUID, userID string) (*entity.Event, error)
	UpdateOwnedEvent(ctx context.Context, evt *entity.Event) (*entity.Event, error)
	DeleteOwnedEvent(ctx context.Context, id uuid.UUID, userID string) (*entity.Event, error)
	GetEvents(ctx context.Context, filter entity.EventFilter) ([]*entity.Event, error)
	LockDay(ctx context.Context, day time.Time) error
	DeleteOldEvents(ctx context.Context, days *int) error

	UpsertUser(ctx context.Context, u *entity.User) error

	InsertOutbox(ctx context.Context, e *entity.OutboxEvent) error
	ReserveOutboxBatch(ctx context.Context, lease time.Duration, limit, maxAttempts int) ([]entity.OutboxEvent, error)
	MarkFailedWithBackoff(ctx context.Context, outboxID int, nextAttemptAt time.Time) error
	MarkGaveUp(ctx context.Context, outboxID int) error

	HealthCheck(ctx context.Context) error
}
type RepoImpl struct {
	db     db.DB
	logger *zap.SugaredLogger
	m      *metrics.Metrics
}

func NewRepo(db db.DB, logger *zap.SugaredLogger, m *metrics.Metrics) *RepoImpl {
	return &RepoImpl{db: db, logger: logger, m: m}
}

func (r *RepoImpl) HealthCheck(ctx context.Context) error {
	var result int
	err := r.db.QueryRow(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

func (r *RepoImpl) CreateEvent(ctx context.Context, evt *entity.Event) (_ *entity.Event, err error) {
	if evt.ID == uuid.Nil {
		if evt.ID, err = uuid.NewV4(); err != nil {
			return nil, fmt.Errorf("generate event id: %w", err)
		}
	}
	r.logger.Debugf("[event: %s] start inserting into DB", evt.ID)
	done := r.observe("insert", "event")
	defer func() { done(err) }()

	row := r.db.QueryRow(ctx, createEvent,
		evt.ID, evt.Title, evt.Description, evt.Date, evt.StartTime, evt.EndTime, evt.CreatedBy)
	created, err := scanEvent(row)

	switch {
	case err == nil:
		r.logger.Debugf("[event: %s] inserted into DB successfully", evt.ID)
		return created, nil
	case errors.Is(err, pgx.ErrNoRows), isDuplicateKeyError(err):
		// ON CONFLICT DO NOTHING вернул 0 строк - id уже занят
		r.logger.Warnf("[event: %s] inserting event: already exists", evt.ID)
		return nil, fmt.Errorf("event %s already exists", evt.ID)
	default:
		r.logger.Errorf("[event: %s] error inserting into DB: %v", evt.ID, err)
		return nil, fmt.Errorf("error inserting into DB: %w", err)
	}
}

func (r *RepoImpl) GetEventByID(ctx context.Context, id uuid.UUID) (_ *entity.Event, err error) {
	done := r.observe("select", "event_by_id")
	defer func() { done(err) }()

	evt, err := scanEvent(r.db.QueryRow(ctx, getEventByID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, appers.NewEventNotFound(id.String())
	}
	if err != nil {
		r.logger.Errorf("[event: %s] error getting from DB: %v", id, err)
		return nil, fmt.Errorf("error getting from DB: %w", err)
	}
	return evt, nil
}

// GetOwnedEvent ищет событие по (id, created_by). Чужое и несуществующее событие неразличимы.
func (r *RepoImpl) GetOwnedEvent(ctx context.Context, id uuid.UUID, userID string) (_ *entity.Event, err error) {
	done := r.observe("select", "owned_event")
	defer func() { done(err) }()

	evt, err := scanEvent(r.db.QueryRow(ctx, getOwnedEvent, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, appers.NewEventNotFound(id.String())
	}
	if err != nil {
		r.logger.Errorf("[event: %s] error getting from DB: %v", id, err)
		return nil, fmt.Errorf("error getting from DB: %w", err)
	}
	return evt, nil
}

// UpdateOwnedEvent условное обновление WHERE id AND created_by, все изменяемые поля пишутся целиком
func (r *RepoImpl) UpdateOwnedEvent(ctx context.Context, evt *entity.Event) (_ *entity.Event, err error) {
	r.logger.Debugf("[event: %s] start updating in DB", evt.ID)
	done := r.observe("update", "event")
	defer func() { done(err) }()

	row := r.db.QueryRow(ctx, updateOwnedEvent,
		evt.ID, evt.CreatedBy, evt.Title, evt.Description, evt.Date, evt.StartTime, evt.EndTime)
	updated, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Warnf("[event: %s] no rows updated", evt.ID)
		return nil, appers.NewEventNotFound(evt.ID.String())
	}
	if err != nil {
		r.logger.Errorf("[event: %s] error updating in DB: %v", evt.ID, err)
		return nil, fmt.Errorf("error updating in DB: %w", err)
	}
	r.logger.Debugf("[event: %s] updated in DB successfully", evt.ID)
	return updated, nil
}

func (r *RepoImpl) DeleteOwnedEvent(ctx context.Context, id uuid.UUID, userID string) (_ *entity.Event, err error) {
	r.logger.Debugf("[event: %s] start deleting from DB", id)
	done := r.observe("delete", "event")
	defer func() { done(err) }()

	deleted, err := scanEvent(r.db.QueryRow(ctx, deleteOwnedEvent, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		r.logger.Warnf("[event: %s] no rows deleted", id)
		return nil, appers.NewEventNotFound(id.String())
	}
	if err != nil {
		r.logger.Errorf("[event: %s] error deleting from DB: %v", id, err)
		return nil, fmt.Errorf("error deleting from DB: %w", err)
	}
	r.logger.Debugf("[event: %s] deleted from DB successfully", id)
	return deleted, nil
}

func (r *RepoImpl) GetEvents(ctx context.Context, filter entity.EventFilter) (_ []*entity.Event, err error) {
	done := r.observe("select", "events")
	defer func() { done(err) }()

	query, args := createFilterQuery(filter)
	r.logger.Debugf("start getting events from DB, filter: %+v", filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Errorf("error getting events from DB: %v", err)
		return nil, fmt.Errorf("error getting from DB: %w", err)
	}
	defer rows.Close()

	events := make([]*entity.Event, 0)
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			r.logger.Errorf("error scanning event: %v", err)
			return nil, fmt.Errorf("error getting from DB: %w", err)
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("events rows err: %w", err)
	}
	return events, nil
}

// LockDay берёт advisory lock дня до конца текущей транзакции
func (r *RepoImpl) LockDay(ctx context.Context, day time.Time) (err error) {
	done := r.observe("lock", "day")
	defer func() { done(err) }()

	key := "events:" + day.Format(schedule.DateLayout)
	if _, err = r.db.Exec(ctx, lockDay, key); err != nil {
		return fmt.Errorf("lock day %s: %w", key, err)
	}
	return nil
}

func (r *RepoImpl) DeleteOldEvents(ctx context.Context, days *int) (err error) {
	d := defaultDeleteDays
	if days != nil && *days > 0 {
		d = *days
	} else if days != nil && *days == 0 {
		r.logger.Warnf("daysToDelete is 0, skipping deletion to prevent deleting all events")
		return nil
	}

	done := r.observe("delete", "old_events")
	defer func() { done(err) }()

	r.logger.Infof("start deleting old events from DB: events older than %d days", d)

	result, err := r.db.Exec(ctx, deleteOldEvents, d)
	if err != nil {
		r.logger.Errorf("error deleting old events from DB: %v", err)
		return fmt.Errorf("error deleting old events from DB: %w", err)
	}
	rowsAffected := result.RowsAffected()
	if rowsAffected == 0 {
		r.logger.Infof("no rows deleted (no events older than %d days)", d)
		return nil
	}
	r.logger.Infof("deleted %d old events from DB (older than %d days)", rowsAffected, d)
	return nil
}

// createFilterQuery собирает WHERE по заполненным полям фильтра
func createFilterQuery(f entity.EventFilter) (string, []any) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 4)
	i := 1

	add := func(cond string, value any) {
		where = append(where, fmt.Sprintf(cond, i))
		args = append(args, value)
		i++
	}

	if f.From != nil {
		add("e.event_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("e.event_date <= $%d", *f.To)
	}
	if f.CreatedBy != "" {
		add("e.created_by = $%d", f.CreatedBy)
	}
	if f.ExcludeID != uuid.Nil {
		add("e.id <> $%d", f.ExcludeID)
	}

	sb := strings.Builder{}
	sb.WriteString(getEventsBase)
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString(getEventsOrder)

	return sb.String(), args
}

func scanEvent(row pgx.Row) (*entity.Event, error) {
	var evt entity.Event
	err := row.Scan(&evt.ID, &evt.Title, &evt.Description, &evt.Date, &evt.StartTime, &evt.EndTime,
		&evt.CreatedBy, &evt.CreatedAt, &evt.UpdatedAt, &evt.CreatorName)
	if err != nil {
		return nil, err
	}
	return &evt, nil
}

// observe пишет метрики запроса к БД; вызывать как done := r.observe(...); defer done(err)
func (r *RepoImpl) observe(op, name string) func(err error) {
	if r.m == nil {
		return func(error) {}
	}
	start := time.Now()
	r.m.Repo.InFlight.WithLabelValues(op, name).Inc()

	return func(err error) {
		r.m.Repo.InFlight.WithLabelValues(op, name).Dec()
		result, kind := "ok", ""
		if err != nil {
			result, kind = "error", errorKind(err)
		}
		r.m.Repo.RequestsTotal.WithLabelValues(op, name, result, kind).Inc()
		r.m.Repo.DurationSeconds.WithLabelValues(op, name, result).Observe(time.Since(start).Seconds())
	}
}

func errorKind(err error) string {
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, appers.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "canceled"
	case errors.As(err, &pgErr):
		return "pg_" + pgErr.Code
	default:
		return "other"
	}
}

// isDuplicateKeyError проверяет, является ли ошибка ошибкой дубликата ключа (SQLSTATE 23505)
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
