package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"wardflow/internal/application/entity"
	"wardflow/internal/transport/producer"
	"wardflow/pkg/config"
)

// KafkaQueue публикует задачи в jobs-топик. Ключ - tenant id, задачи одного
// тенанта попадают в одну партицию.
type KafkaQueue struct {
	producer producer.Producer
	topic    string
}

func NewKafkaQueue(p producer.Producer, topic string) *KafkaQueue {
	return &KafkaQueue{producer: p, topic: topic}
}

func (q *KafkaQueue) Name() string { return config.QueueKafka }

func (q *KafkaQueue) Enqueue(ctx context.Context, job entity.DeliveryJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal delivery job: %w", err)
	}
	if _, _, err := q.producer.ProduceMessage(ctx, q.topic, job.TenantID.String(), body, nil); err != nil {
		return fmt.Errorf("enqueue delivery job %d: %w", job.OutboxEntryID, err)
	}
	return nil
}

// DecodeJob - обратная операция для listener
func DecodeJob(raw []byte) (entity.DeliveryJob, error) {
	var job entity.DeliveryJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return job, fmt.Errorf("decode delivery job: %w", err)
	}
	if job.OutboxEntryID <= 0 || job.TenantID.IsNil() {
		return job, fmt.Errorf("decode delivery job: tenantId and outboxEntryId are required")
	}
	return job, nil
}
