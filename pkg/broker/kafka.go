package broker

import (
	"context"
	"fmt"
	"strings"
	"time"
	"wardflow/pkg/config"

	"go.uber.org/zap"

	"github.com/IBM/sarama"
)

const (
	_defaultConsumerGroup = "wardflow-delivery"
)

type KafkaBroker struct {
	JobsTopic     string
	EventsTopic   string
	ConsumerGroup sarama.ConsumerGroup
	SyncProducer  sarama.SyncProducer
	Brokers       []string
	conf          config.Kafka
	logger        *zap.SugaredLogger
}

// NewKafkaBroker создаёт producer всегда, consumer group - только если withConsumer
// (очередь доставки через kafka). Для канала доставки kafka достаточно producer.
func NewKafkaBroker(conf config.Kafka, withConsumer bool, logger *zap.SugaredLogger) (*KafkaBroker, error) {
	brokers := splitBrokers(conf.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are not configured")
	}

	var consumerGroup sarama.ConsumerGroup
	if withConsumer {
		logger.Debugf("creating consumer group %q for brokers: %s", groupID(conf), conf.Brokers)
		cg, err := newConsumerGroup(conf, brokers)
		if err != nil {
			logger.Errorf("consumer group creation failed: %v", err)
			return nil, err
		}
		consumerGroup = cg
		logger.Infof("consumer group created")
	}

	logger.Debugf("creating producer for brokers: %s", conf.Brokers)
	syncProducer, err := newSyncProducer(conf, brokers)
	if err != nil {
		logger.Errorf("producer creation failed: %v", err)
		if consumerGroup != nil {
			_ = consumerGroup.Close()
		}
		return nil, err
	}
	logger.Infof("producer created")

	broker := &KafkaBroker{
		JobsTopic:     conf.JobsTopic,
		EventsTopic:   conf.EventsTopic,
		ConsumerGroup: consumerGroup,
		SyncProducer:  syncProducer,
		Brokers:       brokers,
		conf:          conf,
		logger:        logger,
	}
	logger.Infof("KafkaBroker created. Jobs topic: %s, events topic: %s", broker.JobsTopic, broker.EventsTopic)
	return broker, nil
}

// HealthCheck проверяет доступность Kafka брокера, Producer и ConsumerGroup
//
// Не использует client.Partitions(): это требует Describe в ACL, а у технических
// учёток на стенде может быть только Read или Write.
// Проверяем инициализацию клиентов и доступность брокеров через минимальный клиент.
func (kb *KafkaBroker) HealthCheck(ctx context.Context) error {
	if kb.SyncProducer == nil {
		return fmt.Errorf("kafka producer is not initialized")
	}

	cfg := sarama.NewConfig()
	cfg.Net.DialTimeout = 2 * time.Second
	cfg.Net.ReadTimeout = 2 * time.Second
	cfg.Net.WriteTimeout = 2 * time.Second
	cfg.Metadata.Timeout = 2 * time.Second
	cfg.Metadata.Retry.Max = 1

	// Те же настройки SASL, что и в producer (приоритет Writer credentials)
	if kb.conf.WriterUsr != "" && kb.conf.WriterUsrPwd != "" {
		applySASLConfig(cfg, kb.conf, true)
	} else {
		applySASLConfig(cfg, kb.conf, false)
	}

	client, err := sarama.NewClient(kb.Brokers, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to kafka brokers: %w", err)
	}
	defer client.Close()

	if len(client.Brokers()) == 0 {
		return fmt.Errorf("no kafka brokers available")
	}

	return ctx.Err()
}

func (kb *KafkaBroker) Close() error {
	var firstErr error
	if kb.ConsumerGroup != nil {
		if err := kb.ConsumerGroup.Close(); err != nil {
			firstErr = err
		}
	}
	if kb.SyncProducer != nil {
		if err := kb.SyncProducer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applySASLConfig применяет SASL конфигурацию к sarama.Config
// useWriterCreds: true - использует WriterUsr/WriterUsrPwd, false - ReaderUsr/ReaderUsrPwd
func applySASLConfig(cfg *sarama.Config, conf config.Kafka, useWriterCreds bool) {
	user, pwd := conf.ReaderUsr, conf.ReaderUsrPwd
	if useWriterCreds {
		user, pwd = conf.WriterUsr, conf.WriterUsrPwd
	}
	if user == "" || pwd == "" {
		return
	}
	cfg.Net.SASL.User = user
	cfg.Net.SASL.Password = pwd
	cfg.Net.SASL.Enable = true
	cfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
}

func EnableSaramaZapLogs(base *zap.SugaredLogger) {
	logger := base.Named("sarama")
	sarama.Logger = &zapSarama{logger}
	logger.Info("sarama logger initialized")
}

type zapSarama struct{ l *zap.SugaredLogger }

func (z *zapSarama) Print(v ...interface{})                 { z.l.Debug(v...) }
func (z *zapSarama) Printf(format string, v ...interface{}) { z.l.Debugf(format, v...) }
func (z *zapSarama) Println(v ...interface{})               { z.l.Debug(v...) }

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func groupID(conf config.Kafka) string {
	if conf.GroupID != "" {
		return conf.GroupID
	}
	return _defaultConsumerGroup
}

func newConsumerGroup(conf config.Kafka, brokers []string) (sarama.ConsumerGroup, error) {
	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	kafkaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	applySASLConfig(kafkaConfig, conf, false)

	consumer, err := sarama.NewConsumerGroup(brokers, groupID(conf), kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer group: %w", err)
	}

	return consumer, nil
}

func newSyncProducer(conf config.Kafka, brokers []string) (sarama.SyncProducer, error) {
	kafkaConfig := sarama.NewConfig()

	kafkaConfig.Net.DialTimeout = 10 * time.Second
	kafkaConfig.Net.ReadTimeout = 15 * time.Second
	kafkaConfig.Net.WriteTimeout = 15 * time.Second
	kafkaConfig.Net.KeepAlive = 30 * time.Second

	kafkaConfig.Metadata.Timeout = 10 * time.Second
	kafkaConfig.Metadata.Retry.Max = 1
	kafkaConfig.Metadata.Retry.Backoff = 1 * time.Second
	kafkaConfig.Metadata.RefreshFrequency = 1 * time.Minute

	kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll
	kafkaConfig.Producer.Return.Successes = true
	kafkaConfig.Producer.Return.Errors = true
	kafkaConfig.Producer.Retry.Max = 0
	kafkaConfig.Producer.Timeout = 10 * time.Second
	// ключ = tenant, задачи одного прихода идут в одну партицию
	kafkaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	kafkaConfig.Producer.Idempotent = false

	applySASLConfig(kafkaConfig, conf, true)

	producer, err := sarama.NewSyncProducer(brokers, kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka sync producer: %w", err)
	}

	return producer, nil
}
