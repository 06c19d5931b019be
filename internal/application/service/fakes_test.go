package service

import (
	"context"
	"errors"
	"eventplanner/internal/appers"
	"eventplanner/internal/application/entity"
	"eventplanner/pkg/config"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// memRepo хранит события в памяти и повторяет семантику SQL-запросов repo
type memRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]entity.Event
	users  map[string]string
	outbox []entity.OutboxEvent

	lockedDays []time.Time
	gaveUp     []int
	failed     []int
	failWith   error
}

func newMemRepo() *memRepo {
	return &memRepo{
		events: make(map[uuid.UUID]entity.Event),
		users:  make(map[string]string),
	}
}

func (r *memRepo) withName(e entity.Event) *entity.Event {
	e.CreatorName = r.users[e.CreatedBy]
	return &e
}

func (r *memRepo) CreateEvent(_ context.Context, evt *entity.Event) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	if evt.ID == uuid.Nil {
		evt.ID = uuid.Must(uuid.NewV4())
	}
	now := time.Now().UTC()
	stored := *evt
	stored.CreatedAt, stored.UpdatedAt = now, now
	r.events[stored.ID] = stored
	return r.withName(stored), nil
}

func (r *memRepo) GetEventByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, appers.NewEventNotFound(id.String())
	}
	return r.withName(e), nil
}

func (r *memRepo) GetOwnedEvent(_ context.Context, id uuid.UUID, userID string) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.CreatedBy != userID {
		return nil, appers.NewEventNotFound(id.String())
	}
	return r.withName(e), nil
}

func (r *memRepo) UpdateOwnedEvent(_ context.Context, evt *entity.Event) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[evt.ID]
	if !ok || e.CreatedBy != evt.CreatedBy {
		return nil, appers.NewEventNotFound(evt.ID.String())
	}
	e.Title, e.Description, e.Date = evt.Title, evt.Description, evt.Date
	e.StartTime, e.EndTime = evt.StartTime, evt.EndTime
	e.UpdatedAt = time.Now().UTC()
	r.events[e.ID] = e
	return r.withName(e), nil
}

func (r *memRepo) DeleteOwnedEvent(_ context.Context, id uuid.UUID, userID string) (*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.CreatedBy != userID {
		return nil, appers.NewEventNotFound(id.String())
	}
	delete(r.events, id)
	return r.withName(e), nil
}

func (r *memRepo) GetEvents(_ context.Context, f entity.EventFilter) ([]*entity.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}

	out := make([]*entity.Event, 0)
	for _, e := range r.events {
		switch {
		case f.From != nil && e.Date.Before(*f.From),
			f.To != nil && e.Date.After(*f.To),
			f.CreatedBy != "" && e.CreatedBy != f.CreatedBy,
			f.ExcludeID != uuid.Nil && e.ID == f.ExcludeID:
			continue
		}
		out = append(out, r.withName(e))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID.String() < b.ID.String()
	})
	return out, nil
}

func (r *memRepo) LockDay(_ context.Context, day time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lockedDays = append(r.lockedDays, day)
	return nil
}

func (r *memRepo) DeleteOldEvents(context.Context, *int) error { return nil }

func (r *memRepo) UpsertUser(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u.Name
	return nil
}

func (r *memRepo) InsertOutbox(_ context.Context, e *entity.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = len(r.outbox) + 1
	r.outbox = append(r.outbox, *e)
	return nil
}

func (r *memRepo) ReserveOutboxBatch(context.Context, time.Duration, int, int) ([]entity.OutboxEvent, error) {
	return nil, nil
}

func (r *memRepo) MarkFailedWithBackoff(_ context.Context, outboxID int, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, outboxID)
	return nil
}

func (r *memRepo) MarkGaveUp(_ context.Context, outboxID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gaveUp = append(r.gaveUp, outboxID)
	return nil
}

func (r *memRepo) HealthCheck(context.Context) error { return r.failWith }

func (r *memRepo) outboxTypes() []entity.OutboxEventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]entity.OutboxEventType, 0, len(r.outbox))
	for _, e := range r.outbox {
		types = append(types, e.EventType)
	}
	return types
}

// memTx сериализует транзакции и откатывает изменения при ошибке
type memTx struct {
	mu   sync.Mutex
	repo *memRepo
	sent []int
}

func (t *memTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.repo.mu.Lock()
	snapshot := make(map[uuid.UUID]entity.Event, len(t.repo.events))
	for k, v := range t.repo.events {
		snapshot[k] = v
	}
	outboxLen := len(t.repo.outbox)
	t.repo.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.repo.mu.Lock()
		t.repo.events = snapshot
		t.repo.outbox = t.repo.outbox[:outboxLen]
		t.repo.mu.Unlock()
		return err
	}
	return nil
}

func (t *memTx) GetOperationsFromOutbox(context.Context, config.RelayConfig) ([]entity.OutboxEvent, error) {
	return nil, nil
}

func (t *memTx) MarkSent(_ context.Context, outboxID int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if outboxID < 0 {
		return errors.New("outbox not found")
	}
	t.sent = append(t.sent, outboxID)
	return nil
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) ProduceMessage(ctx context.Context, e entity.OutboxEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockProducer) HealthCheck(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockDirectory struct {
	mock.Mock
}

func (m *mockDirectory) GetUser(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

type fixture struct {
	svc      *ServiceImpl
	repo     *memRepo
	tx       *memTx
	producer *mockProducer
}

func newFixture(scope string, users UserDirectory) *fixture {
	r := newMemRepo()
	tx := &memTx{repo: r}
	p := &mockProducer{}

	cfg := &config.Config{
		Realay:  config.RelayConfig{Workers: 1, BatchSize: 10, MaxAttempts: 3},
		Overlap: config.Overlap{Scope: scope},
	}
	return &fixture{
		svc:      NewService(r, tx, p, users, zap.NewNop().Sugar(), cfg, nil),
		repo:     r,
		tx:       tx,
		producer: p,
	}
}
