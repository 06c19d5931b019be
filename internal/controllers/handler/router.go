package handler

import (
	"eventplanner/pkg/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	handler  Handler
	app      *fiber.App
	conf     *config.Config
	gatherer prometheus.Gatherer
	logger   *zap.SugaredLogger
}

func NewRouter(handler Handler, app *fiber.App, conf *config.Config, gatherer prometheus.Gatherer, logger *zap.SugaredLogger) *Router {
	return &Router{
		logger:   logger,
		app:      app,
		conf:     conf,
		gatherer: gatherer,
		handler:  handler,
	}
}

func (r *Router) RegisterRouter() {
	r.app.Get("/health", r.handler.HealthCheck)
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))

	swaggerURL := r.conf.Server.SwaggerUrl
	if swaggerURL == "" {
		swaggerURL = "/swagger/doc.json"
	}
	r.app.Get("/swagger/*", swagger.New(swagger.Config{
		DeepLinking: false,
		URL:         swaggerURL,
	}))

	auth := RequireUser(r.conf.Auth.UserHeader)

	events := r.app.Group("/api/v1/events")
	events.Get("/", r.handler.GetEvents)
	// /my-events раньше /:id, иначе он будет принят за идентификатор
	events.Get("/my-events", auth, r.handler.GetMyEvents)
	events.Get("/:id", r.handler.GetEvent)
	events.Post("/", auth, r.handler.CreateEvent)
	events.Put("/:id", auth, r.handler.UpdateEvent)
	events.Delete("/:id", auth, r.handler.DeleteEvent)
}
