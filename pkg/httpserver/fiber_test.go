package httpserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventplanner/pkg/config"
	"eventplanner/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	app := NewFiber(config.Config{
		Server: config.Server{BodyLimit: 64},
		Auth:   config.Auth{UserHeader: "X-User-ID"},
	}, m)

	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Post("/items", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })
	return app, m
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	app, m := newTestApp(t)

	for _, id := range []string{"1", "2", "3"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.API.HTTPRequestsTotal.WithLabelValues("GET", "/items/:id", "200")))
}

func TestMetricsMiddleware_UnmatchedAndErrors(t *testing.T) {
	app, m := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope/42", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.API.HTTPRequestsTotal.WithLabelValues("GET", unmatchedPath, "404")))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.API.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "500")))
}
