package listener

import (
	"context"
	"errors"
	"time"
	use_cases "wardflow/internal/application/use-cases"
	"wardflow/pkg/metrics"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// KafkaBrokerConsumer читает задачи доставки из jobs-топика.
// Offset коммитится после обработки: сбой БД оставляет сообщение непрочитанным до ребаланса,
// а доставленная ревизия при повторе просто сверяется с записью доставки.
type KafkaBrokerConsumer struct {
	usecase use_cases.UseCaser
	logger  *zap.SugaredLogger
	m       *metrics.Metrics
}

func NewKafkaBrokerConsumer(usecase use_cases.UseCaser, logger *zap.SugaredLogger, m *metrics.Metrics) *KafkaBrokerConsumer {
	return &KafkaBrokerConsumer{
		logger:  logger,
		usecase: usecase,
		m:       m,
	}
}

func (k *KafkaBrokerConsumer) Setup(session sarama.ConsumerGroupSession) error {
	k.logger.Infow("Kafka setup success", "member", session.MemberID(), "generation", session.GenerationID())
	if k.m != nil {
		k.m.Kafka.ConsumerRebalancesTotal.WithLabelValues("setup").Inc()
	}
	return nil
}

func (k *KafkaBrokerConsumer) Cleanup(session sarama.ConsumerGroupSession) error {
	k.logger.Info("Kafka cleanup success")
	if k.m != nil {
		k.m.Kafka.ConsumerRebalancesTotal.WithLabelValues("cleanup").Inc()
	}
	return nil
}

func (k *KafkaBrokerConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	topic := claim.Topic()

	for {
		select {
		case <-session.Context().Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if k.m != nil {
				k.m.Kafka.ConsumerInFlight.WithLabelValues(topic).Inc()
			}
			start := time.Now()
			k.logger.Debugf("Message topic:%q partition:%d offset:%d value:%s", msg.Topic, msg.Partition, msg.Offset, msg.Value)

			err := k.usecase.ConsumeDeliveryJob(session.Context(), msg.Value)
			if k.m != nil {
				k.m.Kafka.ConsumerMessagesTotal.WithLabelValues(topic).Inc()
				k.m.Kafka.ConsumerProcessDuration.WithLabelValues(topic).Observe(time.Since(start).Seconds())
				k.m.Kafka.ConsumerInFlight.WithLabelValues(topic).Dec()
			}
			if err != nil {
				// без MarkMessage: сообщение придёт снова после перезапуска сессии
				k.logger.Errorw("delivery job failed", "partition", msg.Partition, "offset", msg.Offset, "err", err)
				return err
			}

			session.MarkMessage(msg, "")
		}
	}
}

// Run крутит Consume в цикле, пока не отменён ctx (Consume возвращается на каждом ребалансе)
func Run(ctx context.Context, group sarama.ConsumerGroup, topic string, handler sarama.ConsumerGroupHandler, logger *zap.SugaredLogger) {
	logger.Infof("kafka listener started, topic %s", topic)
	for {
		if err := group.Consume(ctx, []string{topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			logger.Errorf("consume error: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
		}
		if ctx.Err() != nil {
			logger.Info("kafka listener stopped")
			return
		}
	}
}
