package handler

import (
	"context"
	"encoding/json"
	"errors"
	"eventplanner/internal/appers"
	"eventplanner/internal/application/entity"
	"eventplanner/pkg/config"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofrs/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const userHeader = "X-User-ID"

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) CreateEvent(ctx context.Context, userID string, req entity.EventRequest) (entity.EventResponse, error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).(entity.EventResponse), args.Error(1)
}

func (m *mockUseCase) GetEvent(ctx context.Context, id string) (entity.EventResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.EventResponse), args.Error(1)
}

func (m *mockUseCase) GetEvents(ctx context.Context, date string) (entity.EventListResponse, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(entity.EventListResponse), args.Error(1)
}

func (m *mockUseCase) GetUserEvents(ctx context.Context, userID string) (entity.EventListResponse, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(entity.EventListResponse), args.Error(1)
}

func (m *mockUseCase) UpdateEvent(ctx context.Context, userID, id string, req entity.EventRequest) (entity.EventResponse, error) {
	args := m.Called(ctx, userID, id, req)
	return args.Get(0).(entity.EventResponse), args.Error(1)
}

func (m *mockUseCase) DeleteEvent(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockUseCase) DeleteOldEventsByYear(ctx context.Context) { m.Called(ctx) }

func (m *mockUseCase) RunRelay(ctx context.Context) { m.Called(ctx) }

func (m *mockUseCase) ConsumerMessage(ctx context.Context, msg []byte, msgTime time.Time) error {
	return m.Called(ctx, msg, msgTime).Error(0)
}

func (m *mockUseCase) HealthCheck(ctx context.Context) (bool, bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func newTestApp(uc *mockUseCase) *fiber.App {
	app := fiber.New()
	conf := &config.Config{Auth: config.Auth{UserHeader: userHeader}}
	NewRouter(NewEventHandler(uc, zap.NewNop().Sugar()), app, conf, prometheus.NewRegistry(), zap.NewNop().Sugar()).RegisterRouter()
	return app
}

func do(t *testing.T, app *fiber.App, method, target, userID, body string) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(userHeader, userID)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func sampleEvent() entity.EventResponse {
	return entity.EventResponse{
		ID:        uuid.Must(uuid.FromString("6ba7b810-9dad-11d1-80b4-00c04fd430c8")),
		Title:     "Standup",
		Date:      "2024-01-10",
		StartTime: "09:00",
		EndTime:   "09:15",
		CreatedBy: entity.Creator{ID: "alice", Name: "Alice"},
	}
}

func TestCreateEvent_Created(t *testing.T) {
	uc := &mockUseCase{}
	want := entity.EventRequest{Title: ptr("Standup"), Date: ptr("2024-01-10"), StartTime: ptr("09:00"), EndTime: ptr("09:15")}
	uc.On("CreateEvent", mock.Anything, "alice", want).Return(sampleEvent(), nil).Once()

	resp, body := do(t, newTestApp(uc), http.MethodPost, "/api/v1/events",
		"alice", `{"title":"Standup","date":"2024-01-10","startTime":"09:00","endTime":"09:15"}`)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	evt := body["event"].(map[string]any)
	assert.Equal(t, "Standup", evt["title"])
	assert.Equal(t, "2024-01-10", evt["date"])
	assert.Equal(t, map[string]any{"id": "alice", "name": "Alice"}, evt["createdBy"])
	uc.AssertExpectations(t)
}

func TestCreateEvent_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", appers.ErrEndBeforeStart, http.StatusBadRequest, "End time must be after start time"},
		{"conflict", appers.NewOverlapConflict("Standup", "09:00", "09:15"), http.StatusConflict, `Event overlaps with existing event "Standup" (09:00 - 09:15)`},
		{"internal", errors.New("db down"), http.StatusInternalServerError, "db down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("CreateEvent", mock.Anything, "alice", mock.Anything).Return(entity.EventResponse{}, tt.err)

			resp, body := do(t, newTestApp(uc), http.MethodPost, "/api/v1/events", "alice", `{"title":"x"}`)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantMsg, body["message"])
		})
	}
}

func TestCreateEvent_InvalidBody(t *testing.T) {
	uc := &mockUseCase{}

	resp, body := do(t, newTestApp(uc), http.MethodPost, "/api/v1/events", "alice", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request body", body["message"])
	uc.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthRequired(t *testing.T) {
	uc := &mockUseCase{}
	app := newTestApp(uc)
	id := sampleEvent().ID.String()

	for _, r := range []struct{ method, target string }{
		{http.MethodPost, "/api/v1/events"},
		{http.MethodPut, "/api/v1/events/" + id},
		{http.MethodDelete, "/api/v1/events/" + id},
		{http.MethodGet, "/api/v1/events/my-events"},
	} {
		resp, body := do(t, app, r.method, r.target, "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", r.method, r.target)
		assert.Equal(t, "Authentication invalid", body["message"])
	}
	uc.AssertExpectations(t)
}

func TestGetEvents(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("GetEvents", mock.Anything, "2024-01-10").Return(entity.EventListResponse{
		Events: []entity.EventResponse{sampleEvent()},
		Count:  1,
	}, nil).Once()
	uc.On("GetEvents", mock.Anything, "bad").Return(entity.EventListResponse{}, appers.ErrDateFormat).Once()
	app := newTestApp(uc)

	resp, body := do(t, app, http.MethodGet, "/api/v1/events?date=2024-01-10", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])
	assert.Len(t, body["events"], 1)

	resp, body = do(t, app, http.MethodGet, "/api/v1/events?date=bad", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, string(appers.KindInvalidDate), body["kind"])
}

func TestGetMyEvents_NotShadowedByID(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("GetUserEvents", mock.Anything, "alice").Return(entity.EventListResponse{Events: []entity.EventResponse{}}, nil).Once()

	resp, body := do(t, newTestApp(uc), http.MethodGet, "/api/v1/events/my-events", "alice", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, []any{}, body["events"])
	uc.AssertExpectations(t)
}

func TestGetEvent(t *testing.T) {
	uc := &mockUseCase{}
	id := sampleEvent().ID.String()
	uc.On("GetEvent", mock.Anything, id).Return(sampleEvent(), nil).Once()
	uc.On("GetEvent", mock.Anything, "missing").Return(entity.EventResponse{}, appers.NewEventNotFound("missing")).Once()
	app := newTestApp(uc)

	resp, body := do(t, app, http.MethodGet, "/api/v1/events/"+id, "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, body["event"].(map[string]any)["id"])

	resp, body = do(t, app, http.MethodGet, "/api/v1/events/missing", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No event with id missing", body["message"])
}

func TestUpdateEvent(t *testing.T) {
	uc := &mockUseCase{}
	id := sampleEvent().ID.String()
	uc.On("UpdateEvent", mock.Anything, "alice", id, entity.EventRequest{EndTime: ptr("09:10")}).Return(sampleEvent(), nil).Once()
	uc.On("UpdateEvent", mock.Anything, "bob", id, mock.Anything).Return(entity.EventResponse{}, appers.NewEventNotFound(id)).Once()
	app := newTestApp(uc)

	resp, _ := do(t, app, http.MethodPut, "/api/v1/events/"+id, "alice", `{"endTime":"09:10"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, app, http.MethodPut, "/api/v1/events/"+id, "bob", `{"endTime":"09:10"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	uc.AssertExpectations(t)
}

func TestDeleteEvent(t *testing.T) {
	uc := &mockUseCase{}
	id := sampleEvent().ID.String()
	uc.On("DeleteEvent", mock.Anything, "alice", id).Return(nil).Once()
	uc.On("DeleteEvent", mock.Anything, "alice", id).Return(appers.NewEventNotFound(id)).Twice()
	app := newTestApp(uc)

	resp, body := do(t, app, http.MethodDelete, "/api/v1/events/"+id, "alice", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Event deleted successfully", body["msg"])

	for i := 0; i < 2; i++ {
		resp, _ = do(t, app, http.MethodDelete, "/api/v1/events/"+id, "alice", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
	uc.AssertExpectations(t)
}

func TestHealthCheck(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("HealthCheck", mock.Anything).Return(true, false, nil).Once()

	resp, body := do(t, newTestApp(uc), http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, false, body["status"])
	assert.Equal(t, "Some services are unavailable", body["message"])
}

func TestMetricsEndpoint(t *testing.T) {
	resp, err := newTestApp(&mockUseCase{}).Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func ptr(s string) *string { return &s }
