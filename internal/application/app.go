package application

import (
	"context"
	"fmt"
	"wardflow/internal/application/common"
	"wardflow/internal/application/repo"
	"wardflow/internal/application/service"
	"wardflow/internal/application/use-cases"
	"wardflow/internal/controllers/cron"
	"wardflow/internal/controllers/handler"
	"wardflow/internal/controllers/listener"
	"wardflow/internal/transport/dispatch"
	"wardflow/internal/transport/producer"
	"wardflow/internal/transport/queue"
	"wardflow/pkg/broker"
	"wardflow/pkg/config"
	"wardflow/pkg/db"
	"wardflow/pkg/httpclient"
	"wardflow/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type App struct {
	ctx            context.Context
	conf           *config.Config
	logger         *zap.SugaredLogger
	postgres       *db.Postgres
	httpServer     *fiber.App
	kafka          *broker.KafkaBroker
	cronController *cron.Controller
}

// NewApp собирает зависимости и запускает фоновые части: воркеров доставки
// (локальных или kafka listener) и cron проход по outbox.
// kafkaBroker может быть nil, если kafka не настроена.
func NewApp(
	ctx context.Context,
	conf *config.Config,
	logger *zap.SugaredLogger,
	postgres *db.Postgres,
	httpServer *fiber.App,
	kafkaBroker *broker.KafkaBroker,
	m *metrics.Metrics) (*App, error) {
	//Логируем версию приложения
	logger.Infof("Запуск Wardflow Service версии: %s", common.Version)

	store := repo.NewRepo(postgres, logger)
	tx := repo.NewTransactions(store, logger)

	// интерфейс остаётся nil без kafka: сервис и dispatch проверяют именно его
	var kafkaProducer producer.Producer
	if kafkaBroker != nil {
		kafkaProducer = producer.NewProducer(kafkaBroker, logger, conf.Broker.Kafka.MaxAttempts, m)
	}

	dispatcher, err := dispatch.New(conf.Delivery, httpclient.New(conf.HTTPClient, logger), kafkaProducer, conf.Broker.Kafka.EventsTopic, logger)
	if err != nil {
		return nil, fmt.Errorf("delivery channel: %w", err)
	}

	var (
		q     queue.Queue
		local *queue.LocalQueue
	)
	switch conf.Delivery.Queue {
	case "", config.QueueLocal:
		local = queue.NewLocalQueue(conf.Delivery.Workers, conf.Delivery.QueueBuffer, logger, m)
		q = local
	case config.QueueKafka:
		if kafkaBroker == nil || kafkaBroker.ConsumerGroup == nil {
			return nil, fmt.Errorf("delivery.queue=%s requires broker.kafka.brokers", config.QueueKafka)
		}
		q = queue.NewKafkaQueue(kafkaProducer, kafkaBroker.JobsTopic)
	default:
		return nil, fmt.Errorf("unknown delivery queue %q", conf.Delivery.Queue)
	}
	logger.Infof("delivery queue: %s, channel: %s", q.Name(), dispatcher.Name())

	srv := service.NewService(store, tx, q, dispatcher, kafkaProducer, logger, *conf, m)
	uc := use_cases.NewUseCase(srv, logger)
	h := handler.NewHandler(uc, logger)
	r := handler.NewRouter(h, httpServer, conf, logger)

	// Инициализация cron контроллера
	cronController := cron.NewController(ctx, conf.Cron, logger)
	if err := cronController.RegisterSweepJob(uc, conf.Cron); err != nil {
		return nil, err
	}

	if local != nil {
		go local.Run(ctx, uc.HandleDeliveryJob)
	} else {
		consumer := listener.NewKafkaBrokerConsumer(uc, logger, m)
		go listener.Run(ctx, kafkaBroker.ConsumerGroup, kafkaBroker.JobsTopic, consumer, logger)
	}

	cronController.Start()

	// хвосты прошлого запуска: processing с истёкшей арендой и потерянные pending
	go uc.SweepOutbox(ctx)

	r.RegisterRouter()

	return &App{
		ctx:            ctx,
		conf:           conf,
		logger:         logger,
		postgres:       postgres,
		httpServer:     httpServer,
		kafka:          kafkaBroker,
		cronController: cronController,
	}, nil
}

func (a *App) Run() error {
	return a.httpServer.Listen(fmt.Sprintf(":%s", a.conf.Server.Port))
}

func (a *App) Shutdown() error {
	// Останавливаем cron задачи
	if a.cronController != nil {
		a.cronController.Stop()
	}
	err := a.httpServer.Shutdown()

	if a.kafka != nil {
		a.logger.Info("закрытие kafka broker")
		if kerr := a.kafka.Close(); kerr != nil {
			a.logger.Errorf("закрытие kafka broker: %v", kerr)
		}
	}
	return err
}
