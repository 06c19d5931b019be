package entity

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
)

type OutboxStatus string

const (
	OutboxNew    OutboxStatus = "NEW"
	OutboxSent   OutboxStatus = "SENT"
	OutboxFailed OutboxStatus = "FAILED"
	OutboxGaveUp OutboxStatus = "GAVE_UP"
)

type OutboxAggregate string

const (
	AggregateEvent OutboxAggregate = "event"
)

type OutboxEventType string

const (
	EventCreated OutboxEventType = "event_created"
	EventUpdated OutboxEventType = "event_updated"
	EventDeleted OutboxEventType = "event_deleted"
)

type OutboxEvent struct {
	ID            int             `db:"id"`
	AggregateID   uuid.UUID       `db:"aggregate_id"`   // events.id, без FK: удалённые события тоже публикуются
	AggregateType OutboxAggregate `db:"aggregate_type"` // "event"
	EventType     OutboxEventType `db:"event_type"`     // "event_created" / "event_updated" / "event_deleted"
	Payload       json.RawMessage `db:"payload"`        // JSONB для Kafka
	Status        OutboxStatus    `db:"status"`         // NEW | SENT | FAILED | GAVE_UP
	Attempts      int             `db:"attempts"`
	NextAttemptAt time.Time       `db:"next_attempt_at"`
	CreatedAt     time.Time       `db:"created_at"`
}

// EventMessage сообщение, которое уходит в Kafka через outbox
type EventMessage struct {
	Type       OutboxEventType `json:"type"`
	Event      EventResponse   `json:"event"`
	OccurredAt time.Time       `json:"occurredAt"`
}
