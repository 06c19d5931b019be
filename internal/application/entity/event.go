package entity

import (
	"time"

	"github.com/gofrs/uuid"
)

// Event запись календаря в том виде, в котором она хранится в БД
type Event struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title" validate:"required,max=100"`
	Description string    `json:"description" validate:"max=100"`
	Date        time.Time `json:"date" validate:"required"`
	StartTime   string    `json:"startTime" validate:"required,hhmm"`
	EndTime     string    `json:"endTime" validate:"required,hhmm"`
	CreatedBy   string    `json:"createdBy" validate:"required,max=100"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// CreatorName заполняется только при чтении (join с users)
	CreatorName string `json:"-"`
}

// EventRequest тело запроса на создание/изменение.
// Указатели отличают отсутствующее поле от пустой строки.
type EventRequest struct {
	Title       *string `json:"title" example:"Standup"`
	Description *string `json:"description,omitempty" example:"daily sync"`
	Date        *string `json:"date" example:"2024-01-10"`
	StartTime   *string `json:"startTime" example:"09:00"`
	EndTime     *string `json:"endTime" example:"09:15"`
}

// EventFilter условия выборки событий, пустые поля не ограничивают выборку
type EventFilter struct {
	From      *time.Time
	To        *time.Time
	CreatedBy string
	ExcludeID uuid.UUID
}

type Creator struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type EventResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date" example:"2024-01-10"`
	StartTime   string    `json:"startTime" example:"09:00"`
	EndTime     string    `json:"endTime" example:"09:15"`
	CreatedBy   Creator   `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type EventEnvelope struct {
	Event EventResponse `json:"event"`
}

type EventListResponse struct {
	Events []EventResponse `json:"events"`
	Count  int             `json:"count"`
}

type MessageResponse struct {
	Msg string `json:"msg" example:"Event deleted successfully"`
}

func (e *Event) Response() EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.Format("2006-01-02"),
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		CreatedBy:   Creator{ID: e.CreatedBy, Name: e.CreatorName},
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func NewEventList(events []*Event) EventListResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, e.Response())
	}
	return EventListResponse{Events: out, Count: len(out)}
}

// OverlapResult результат проверки пересечения
type OverlapResult struct {
	HasOverlap       bool
	ConflictingEvent *Event
}
