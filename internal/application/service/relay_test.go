package service

import (
	"context"
	"errors"
	"eventplanner/internal/application/entity"
	"eventplanner/pkg/config"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func outboxRecord(id, attempts int) entity.OutboxEvent {
	return entity.OutboxEvent{
		ID:            id,
		AggregateID:   uuid.Must(uuid.NewV4()),
		AggregateType: entity.AggregateEvent,
		EventType:     entity.EventCreated,
		Payload:       []byte(`{"type":"event_created"}`),
		Status:        entity.OutboxNew,
		Attempts:      attempts,
	}
}

func TestProcessOne_Sent(t *testing.T) {
	f := newFixture(config.OverlapScopeGlobal, nil)
	rec := outboxRecord(7, 0)
	f.producer.On("ProduceMessage", mock.Anything, rec).Return(nil).Once()

	f.svc.ProcessOne(context.Background(), 0, rec)

	assert.Equal(t, []int{7}, f.tx.sent)
	assert.Empty(t, f.repo.failed)
	assert.Empty(t, f.repo.gaveUp)
	f.producer.AssertExpectations(t)
}

func TestProcessOne_FailedIsRetriedLater(t *testing.T) {
	f := newFixture(config.OverlapScopeGlobal, nil)
	rec := outboxRecord(8, 0)
	f.producer.On("ProduceMessage", mock.Anything, rec).Return(errors.New("leader not available")).Once()

	f.svc.ProcessOne(context.Background(), 0, rec)

	assert.Empty(t, f.tx.sent)
	assert.Equal(t, []int{8}, f.repo.failed)
	assert.Empty(t, f.repo.gaveUp)
}

func TestProcessOne_GivesUpAfterMaxAttempts(t *testing.T) {
	f := newFixture(config.OverlapScopeGlobal, nil)
	// MaxAttempts = 3 в фикстуре
	rec := outboxRecord(9, 2)
	f.producer.On("ProduceMessage", mock.Anything, rec).Return(errors.New("still down")).Once()

	f.svc.ProcessOne(context.Background(), 0, rec)

	assert.Empty(t, f.repo.failed)
	assert.Equal(t, []int{9}, f.repo.gaveUp)
}

func TestProcessOne_MarkSentFailure(t *testing.T) {
	f := newFixture(config.OverlapScopeGlobal, nil)
	rec := outboxRecord(-1, 0)
	f.producer.On("ProduceMessage", mock.Anything, rec).Return(nil).Once()

	f.svc.ProcessOne(context.Background(), 0, rec)

	assert.Equal(t, []int{-1}, f.repo.gaveUp, "sent message is never produced again")
}
