package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"wardflow/internal/application/entity"
	"wardflow/internal/transport/producer"
	"wardflow/pkg/config"
)

// KafkaDispatcher публикует уведомление в events-топик.
// Ключ сообщения - ключ идемпотентности, ref - partition/offset.
type KafkaDispatcher struct {
	producer producer.Producer
	topic    string
}

func NewKafkaDispatcher(p producer.Producer, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{producer: p, topic: topic}
}

func (d *KafkaDispatcher) Name() string { return config.ChannelKafka }

func (d *KafkaDispatcher) Dispatch(ctx context.Context, n entity.Notification) (string, error) {
	body, err := json.Marshal(n)
	if err != nil {
		return "", fmt.Errorf("marshal notification: %w", err)
	}
	part, off, err := d.producer.ProduceMessage(ctx, d.topic, n.IdempotencyKey, body, map[string]string{
		IdempotencyHeader: n.IdempotencyKey,
		EventHeader:       string(n.EventType),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%d/%d", d.topic, part, off), nil
}
