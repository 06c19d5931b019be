package application

import (
	"context"
	"eventplanner/internal/application/common"
	"eventplanner/internal/application/repo"
	"eventplanner/internal/application/service"
	use_cases "eventplanner/internal/application/use-cases"
	"eventplanner/internal/controllers/cron"
	"eventplanner/internal/controllers/handler"
	"eventplanner/internal/controllers/listener"
	"eventplanner/internal/transport/producer"
	"eventplanner/internal/transport/userdir"
	"eventplanner/pkg/broker"
	"eventplanner/pkg/config"
	"eventplanner/pkg/db"
	"eventplanner/pkg/httpclient"
	"eventplanner/pkg/metrics"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const consumerRetryDelay = 5 * time.Second

type App struct {
	conf           *config.Config
	logger         *zap.SugaredLogger
	httpServer     *fiber.App
	kafka          *broker.KafkaBroker
	cronController *cron.Controller
	httpClient     *httpclient.Client
	background     sync.WaitGroup
}

func NewApp(
	ctx context.Context,
	conf *config.Config,
	logger *zap.SugaredLogger,
	postgres *db.Postgres,
	httpServer *fiber.App,
	kafkaBroker *broker.KafkaBroker,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer) (*App, error) {
	logger.Infof("starting eventplanner version %s, overlap scope: %s", common.Version, conf.Overlap.Scope)

	app := &App{
		conf:       conf,
		logger:     logger,
		httpServer: httpServer,
		kafka:      kafkaBroker,
	}

	var users service.UserDirectory
	if conf.HTTPClient.UserDirectoryURL != "" {
		app.httpClient = httpclient.NewClient(conf.HTTPClient)
		retry := httpclient.NewRetryClient(app.httpClient, conf.HTTPClient.MaxRetries, logger)
		users = userdir.NewClient(conf.HTTPClient.UserDirectoryURL, retry, logger)
		logger.Infof("user directory fallback enabled: %s", conf.HTTPClient.UserDirectoryURL)
	}

	store := repo.NewRepo(postgres, logger, m)
	tx := repo.NewTransactions(store, logger)
	kafkaProducer := producer.NewProducer(kafkaBroker, logger, conf.Broker.Kafka.MaxAttempts, m)
	srv := service.NewService(store, tx, kafkaProducer, users, logger, conf, m)
	uc := use_cases.NewUseCase(srv, logger, conf)
	h := handler.NewEventHandler(uc, logger)
	handler.NewRouter(h, httpServer, conf, gatherer, logger).RegisterRouter()

	app.cronController = cron.NewController(ctx, logger)
	if err := app.cronController.RegisterDeleteOldEventsJob(uc, conf.Cron); err != nil {
		return nil, err
	}
	app.cronController.Start()

	app.goBackground(func() { uc.RunRelay(ctx) })
	app.goBackground(func() { app.runConsumer(ctx, listener.NewKafkaBrokerConsumer(uc, logger, m), m) })

	return app, nil
}

func (a *App) goBackground(fn func()) {
	a.background.Add(1)
	go func() {
		defer a.background.Done()
		fn()
	}()
}

func (a *App) Run() error {
	return a.httpServer.Listen(fmt.Sprintf(":%s", a.conf.Server.Port))
}

// Shutdown вызывается после отмены ctx, переданного в NewApp
func (a *App) Shutdown(timeout time.Duration) error {
	if a.cronController != nil {
		a.cronController.Stop()
	}

	err := a.httpServer.ShutdownWithTimeout(timeout)

	a.background.Wait()
	if a.httpClient != nil {
		a.httpClient.CloseIdle()
	}
	if cerr := a.kafka.Close(); cerr != nil {
		a.logger.Errorf("kafka close: %v", cerr)
	}
	return err
}

func (a *App) runConsumer(ctx context.Context, consumer *listener.KafkaBrokerConsumer, m *metrics.Metrics) {
	if m != nil {
		g := m.Go.InternalGoroutines.WithLabelValues("users_consumer")
		g.Inc()
		defer g.Dec()
	}

	topic := a.kafka.ConsumerTopic
	a.logger.Infof("consumer started, topic: %s", topic)

	for {
		// Consume возвращается на каждом ребалансе, поэтому вызывается в цикле
		if err := a.kafka.ConsumerGroup.Consume(ctx, []string{topic}, consumer); err != nil {
			a.logger.Errorf("consumer error: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(consumerRetryDelay):
			}
		}
		if ctx.Err() != nil {
			a.logger.Info("consumer stopped")
			return
		}
	}
}
