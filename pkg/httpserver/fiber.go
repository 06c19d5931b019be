package httpserver

import (
	"errors"
	"eventplanner/pkg/config"
	"eventplanner/pkg/metrics"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// unmatchedPath метка для запросов без маршрута, чтобы произвольные URL не раздували кардинальность
const unmatchedPath = "unmatched"

func NewFiber(conf config.Config, m *metrics.Metrics) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:        "eventplanner",
			ReadBufferSize: 1024 * 100,
			BodyLimit:      conf.Server.BodyLimit,
			ErrorHandler:   errorHandler,
		},
	)

	app.Use(
		cors.New(cors.Config{
			AllowOrigins:  "*",
			AllowHeaders:  "Origin, Content-Type, Accept, " + conf.Auth.UserHeader,
			ExposeHeaders: "Authorization",
		}),
		recover.New(recover.Config{EnableStackTrace: true}),
		logger.New(),
	)

	if m != nil {
		app.Use(metricsMiddleware(m))
	}

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"message": err.Error()})
}

func metricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// без совпавшего маршрута c.Route() указывает на middleware (метод USE)
		method, path := c.Method(), unmatchedPath
		if r := c.Route(); r != nil && r.Method != "USE" {
			method, path = r.Method, r.Path
		}

		status := c.Response().StatusCode()
		if err != nil {
			// ошибка ещё не записана в ответ, её статус выставит ErrorHandler
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		statusStr := strconv.Itoa(status)
		m.API.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		m.API.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())
		return err
	}
}
