// Package queue доставляет задачи DeliveryJob до воркера: in-process пулом или через Kafka.
package queue

import (
	"context"
	"errors"
	"wardflow/internal/application/entity"
)

var ErrQueueFull = errors.New("delivery queue is full")

// Handler обрабатывает одну задачу доставки
type Handler func(ctx context.Context, job entity.DeliveryJob) error

type Queue interface {
	Name() string
	Enqueue(ctx context.Context, job entity.DeliveryJob) error
}
