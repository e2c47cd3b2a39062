package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"wardflow/docs"
	"wardflow/internal/application"
	"wardflow/pkg/broker"
	"wardflow/pkg/config"
	"wardflow/pkg/db"
	"wardflow/pkg/httpserver"
	"wardflow/pkg/metrics"
	"wardflow/pkg/observability"

	"github.com/prometheus/client_golang/prometheus"
)

// @title           Wardflow Service API
// @version         1.0
// @description     Жизненный цикл призваний, собрания и доставка событий через outbox

// @BasePath /wardflow/api

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf, err := config.NewConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := observability.InitLogger(conf.LoggingLevel)

	logger.Infof("LOGGING_LEVEL = %s", conf.LoggingLevel)
	if strings.ToLower(conf.LoggingLevel) == "debug" {
		broker.EnableSaramaZapLogs(logger)
	}

	docs.SwaggerInfo.Host = conf.Server.SwaggerHost
	if conf.Server.SwaggerSchema != "" {
		docs.SwaggerInfo.Schemes = []string{conf.Server.SwaggerSchema}
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	fiberServer := httpserver.NewFiber(conf, m, prometheus.DefaultGatherer)
	if fiberServer == nil {
		logger.Fatal(errors.New("fiber server is nil"))
	}

	store, err := db.NewPostgres(ctx, conf.Postgres)
	if err != nil {
		logger.Fatal(err)
	}

	var kafka *broker.KafkaBroker
	if conf.Broker.Kafka.Enabled() {
		withConsumer := conf.Delivery.Queue == config.QueueKafka
		kafka, err = broker.NewKafkaBroker(conf.Broker.Kafka, withConsumer, logger)
		if err != nil {
			logger.Fatal(err)
		}
	} else {
		logger.Info("kafka is not configured, running without broker")
	}

	server, err := application.NewApp(ctx, &conf, logger, store, fiberServer, kafka, m)
	if err != nil {
		logger.Fatal(err)
	}

	logger.Info("Wardflow service started successfully")
	logger.Info(fmt.Sprintf("Server config: %+v", conf.Server))

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Fatalf("error listening for server: %v", err)
				return
			}

			logger.Infof("server %v closed", conf.Server.Port)
		}
	}()

	//graceful shutdown
	osSignal := <-interrupt
	switch osSignal {
	case os.Interrupt:
		logger.Infof("%v Got SIGINT...", conf.Server.Port)
	case syscall.SIGTERM:
		logger.Infof("%v Got SIGTERM...", conf.Server.Port)
	}

	cancel()

	if err := server.Shutdown(); err != nil {
		logger.Errorf("server %v forced to shutdown: %v", conf.Server.Port, err)
	}

	store.Close()

	logger.Infof("postgres db connection closed")
	logger.Infof("server shutdown %v done", conf.Server.Port)
}
