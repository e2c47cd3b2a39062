package producer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
	"wardflow/internal/application/common"
	"wardflow/pkg/broker"
	"wardflow/pkg/metrics"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Producer - синхронная отправка в Kafka с повторами на временных ошибках
type Producer interface {
	ProduceMessage(ctx context.Context, topic, key string, message []byte, headers map[string]string) (int32, int64, error)
	HealthCheck(ctx context.Context) error
}

type KafkaProducer struct {
	broker      *broker.KafkaBroker
	logger      *zap.SugaredLogger
	maxAttempts int
	m           *metrics.Metrics
}

func NewProducer(broker *broker.KafkaBroker, logger *zap.SugaredLogger, maxAttempts int, m *metrics.Metrics) *KafkaProducer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &KafkaProducer{
		broker:      broker,
		logger:      logger,
		maxAttempts: maxAttempts,
		m:           m,
	}
}

// HealthCheck проверяет доступность Kafka через broker
func (p *KafkaProducer) HealthCheck(ctx context.Context) error {
	if p.broker == nil {
		return errors.New("kafka broker is not initialized")
	}
	return p.broker.HealthCheck(ctx)
}

func (p *KafkaProducer) ProduceMessage(ctx context.Context, topic, key string, message []byte, headers map[string]string) (int32, int64, error) {
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		msg := &sarama.ProducerMessage{
			Topic:     topic,
			Key:       sarama.StringEncoder(key),
			Value:     sarama.ByteEncoder(message),
			Headers:   recordHeaders(headers),
			Timestamp: time.Now(),
		}

		t0 := time.Now()
		part, off, err := p.broker.SyncProducer.SendMessage(msg)
		rt := time.Since(t0)

		if p.m != nil {
			res := "ok"
			if err != nil {
				res = "error"
			}
			p.m.Kafka.ProducerAttemptLatencySeconds.WithLabelValues(topic, res).Observe(rt.Seconds())
		}

		if err == nil {
			if p.m != nil {
				p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "success").Inc()
				p.m.Kafka.ProducerSuccessAttempts.WithLabelValues(topic).Observe(float64(attempt))
			}
			p.logger.Debugf("[key %s] sent topic=%s partition=%d offset=%d attempt=%d rt=%s",
				key, topic, part, off, attempt, rt)
			return part, off, nil
		}

		lastErr = err

		var kerr sarama.KError
		if errors.As(err, &kerr) {
			if isPermanent(kerr) {
				if p.m != nil {
					p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "permanent").Inc()
				}
				p.logger.Errorf("[key %s] permanent kafka error attempt=%d rt=%s kafka_error=%s code=%d", key, attempt, rt, kerr.Error(), int16(kerr))
				return 0, 0, fmt.Errorf("permanent kafka error: %w", kerr)
			}
		}
		p.logger.Warnf("[key %s] retryable produce error attempt=%d rt=%s reason=%s err=%v",
			key, attempt, rt, ClassifyRetry(err), err)

		if attempt == p.maxAttempts {
			break
		}

		if err := common.SleepCtx(ctx, common.NextBackoffWithJitter(attempt-1)); err != nil {
			// отмена/таймаут контекста считаем как canceled
			if p.m != nil {
				p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "canceled").Inc()
			}
			return 0, 0, err
		}
	}
	if p.m != nil {
		p.m.Kafka.ProducerOperationsTotal.WithLabelValues(topic, "failed").Inc()
	}
	p.logger.Errorf("[key %s] produce_failed after %d attempts: %v", key, p.maxAttempts, lastErr)
	return 0, 0, fmt.Errorf("produce failed after %d attempts: %w", p.maxAttempts, lastErr)
}

func recordHeaders(h map[string]string) []sarama.RecordHeader {
	if len(h) == 0 {
		return nil
	}
	out := make([]sarama.RecordHeader, 0, len(h))
	for k, v := range h {
		out = append(out, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	return out
}

func isPermanent(k sarama.KError) bool {
	switch k {
	case sarama.ErrTopicAuthorizationFailed,
		sarama.ErrClusterAuthorizationFailed,
		sarama.ErrInvalidRequest,
		sarama.ErrInvalidMessage,
		sarama.ErrMessageSizeTooLarge,
		sarama.ErrSASLAuthenticationFailed:
		return true
	default:
		return false
	}
}

func ClassifyRetry(err error) string {
	var k sarama.KError
	if errors.As(err, &k) {
		switch k {
		case sarama.ErrLeaderNotAvailable:
			return "leader_not_available"
		case sarama.ErrRequestTimedOut:
			return "broker_timeout"
		case sarama.ErrNotEnoughReplicas, sarama.ErrNotEnoughReplicasAfterAppend:
			return "not_enough_replicas"
		default:
			return k.Error()
		}
	}
	// context.DeadlineExceeded тоже реализует net.Error, поэтому проверяется раньше
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "client_deadline"
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return "net_timeout"
	}
	return "other"
}
