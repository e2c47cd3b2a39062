package service

import (
	"context"
	"wardflow/internal/application/entity"
)

// SweepOutbox - страховка для потерянных задач доставки:
// processing дольше lease -> pending (воркер упал посреди попытки),
// pending дольше staleAfter -> задача снова в очередь (упали между коммитом и enqueue).
func (s *ServiceImpl) SweepOutbox(ctx context.Context) {
	s.logger.Debugw("outbox sweep started", "lease", s.cron.ProcessingLease.String(), "staleAfter", s.cron.StaleAfter.String())

	requeued, err := s.repo.RequeueStaleProcessing(ctx, s.cron.ProcessingLease)
	if err != nil {
		s.logger.Errorw("requeue stale processing failed", "err", err)
	} else {
		s.requeue(ctx, requeued, "stale_processing")
	}

	stale, err := s.repo.ListStalePending(ctx, s.cron.StaleAfter, s.cron.BatchSize)
	if err != nil {
		s.logger.Errorw("list stale pending failed", "err", err)
		return
	}
	s.requeue(ctx, stale, "stale_pending")
}

func (s *ServiceImpl) requeue(ctx context.Context, refs []entity.StaleOutboxRef, reason string) {
	if len(refs) == 0 {
		return
	}
	s.logger.Infow("outbox sweep requeue", "reason", reason, "count", len(refs))

	for _, ref := range refs {
		s.enqueueJob(ctx, entity.DeliveryJob{TenantID: ref.TenantID, OutboxEntryID: ref.ID})
	}
	if s.m != nil {
		s.m.Delivery.SweepRequeuedTotal.WithLabelValues(reason).Add(float64(len(refs)))
	}
}
