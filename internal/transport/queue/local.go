package queue

import (
	"context"
	"sync"
	"time"
	"wardflow/internal/application/entity"
	"wardflow/pkg/config"
	"wardflow/pkg/metrics"

	"go.uber.org/zap"
)

// LocalQueue - ограниченный канал и фиксированный пул воркеров внутри процесса.
// Задачи, не попавшие в буфер, подберёт sweeper по зависшим pending записям.
type LocalQueue struct {
	jobs    chan entity.DeliveryJob
	workers int
	handler Handler
	logger  *zap.SugaredLogger
	m       *metrics.Metrics
	wg      sync.WaitGroup
}

func NewLocalQueue(workers, buffer int, logger *zap.SugaredLogger, m *metrics.Metrics) *LocalQueue {
	if workers < 1 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &LocalQueue{
		jobs:    make(chan entity.DeliveryJob, buffer),
		workers: workers,
		logger:  logger,
		m:       m,
	}
}

func (q *LocalQueue) Name() string { return config.QueueLocal }

// Enqueue не блокирует запрос-источник: при полном буфере сразу возвращает ErrQueueFull
func (q *LocalQueue) Enqueue(ctx context.Context, job entity.DeliveryJob) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run стартует воркеров и блокируется до отмены ctx и завершения всех воркеров
func (q *LocalQueue) Run(ctx context.Context, handler Handler) {
	q.handler = handler
	q.logger.Infow("local delivery queue started", "workers", q.workers, "buffer", cap(q.jobs))

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
	q.wg.Wait()
	q.logger.Infow("local delivery queue stopped")
}

func (q *LocalQueue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	if q.m != nil {
		q.m.Go.InternalGoroutines.WithLabelValues("delivery_worker").Inc()
		defer q.m.Go.InternalGoroutines.WithLabelValues("delivery_worker").Dec()
	}

	q.logger.Debugw("worker started", "id", id)
	for {
		select {
		case <-ctx.Done():
			q.logger.Debugw("worker stopping", "id", id)
			return
		case job := <-q.jobs:
			start := time.Now()
			if err := q.handler(ctx, job); err != nil {
				q.logger.Errorw("delivery job failed", "worker", id, "tenant", job.TenantID, "outboxEntryId", job.OutboxEntryID, "err", err)
				continue
			}
			q.logger.Debugw("delivery job done", "worker", id, "outboxEntryId", job.OutboxEntryID, "rt", time.Since(start))
		}
	}
}
