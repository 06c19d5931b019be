package appers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResp_Is(t *testing.T) {
	notFound := NewEventNotFound("42")
	assert.ErrorIs(t, notFound, ErrNotFound)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", notFound), ErrNotFound)
	assert.NotErrorIs(t, notFound, ErrConflict)

	assert.ErrorIs(t, ErrEndBeforeStart, ErrValidation)
	assert.ErrorIs(t, ErrEndBeforeStart, ErrEndBeforeStart)
	assert.NotErrorIs(t, ErrEndBeforeStart, ErrTimeFormat)
	assert.NotErrorIs(t, errors.New("boom"), ErrValidation)
}

func TestNewOverlapConflict(t *testing.T) {
	err := NewOverlapConflict("Standup", "09:00", "09:15")
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, `Event overlaps with existing event "Standup" (09:00 - 09:15)`, err.Error())
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"validation", ErrEndBeforeStart, http.StatusBadRequest, string(KindEndBeforeStart)},
		{"not found", fmt.Errorf("repo: %w", NewEventNotFound("x")), http.StatusNotFound, ""},
		{"conflict", NewOverlapConflict("a", "09:00", "10:00"), http.StatusConflict, ""},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return SanitizeError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body map[string]string
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.NotEmpty(t, body["message"])
			assert.Equal(t, tt.wantKind, body["kind"])
		})
	}
}
