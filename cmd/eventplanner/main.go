package main

import (
	"context"
	"eventplanner/docs"
	"eventplanner/internal/application"
	"eventplanner/pkg/broker"
	"eventplanner/pkg/config"
	"eventplanner/pkg/db"
	"eventplanner/pkg/httpserver"
	"eventplanner/pkg/metrics"
	"eventplanner/pkg/observability"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

// @title           Event Planner API
// @version         1.0
// @description     Сервис событий календаря с контролем пересечений в пределах дня

// @securityDefinitions.apikey UserID
// @in header
// @name X-User-ID

// @BasePath /

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf, err := config.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := observability.InitLogger(conf.LoggingLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Infof("LOGGING_LEVEL = %s", conf.LoggingLevel)
	if strings.ToLower(conf.LoggingLevel) == "debug" {
		broker.EnableSaramaZapLogs(logger)
	}

	if conf.Server.SwaggerHost != "" {
		docs.SwaggerInfo.Host = conf.Server.SwaggerHost
	}
	if conf.Server.SwaggerSchema != "" {
		docs.SwaggerInfo.Schemes = []string{conf.Server.SwaggerSchema}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	fiberServer := httpserver.NewFiber(conf, m)

	store, err := db.NewPostgres(ctx, conf.Postgres)
	if err != nil {
		logger.Fatal(err)
	}

	kafka, err := broker.NewKafkaBroker(conf.Broker.Kafka, logger)
	if err != nil {
		store.Close()
		logger.Fatal(err)
	}

	server, err := application.NewApp(ctx, &conf, logger, store, fiberServer, kafka, m, reg)
	if err != nil {
		store.Close()
		logger.Fatal(err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("listening on :%s", conf.Server.Port)
		serverErr <- server.Run()
	}()

	select {
	case sig := <-interrupt:
		logger.Infof("got %v, shutting down", sig)
	case err := <-serverErr:
		logger.Errorf("http server stopped: %v", err)
	}

	cancel()

	if err := server.Shutdown(shutdownTimeout); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}

	store.Close()
	logger.Info("postgres db connection closed, shutdown done")
}
