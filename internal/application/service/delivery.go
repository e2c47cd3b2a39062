package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"wardflow/internal/application/common"
	"wardflow/internal/application/entity"

	"github.com/gofrs/uuid"
)

// DeliverNext забирает самую старую pending запись тенанта и доставляет её.
// Ошибка доставки сохраняется в записи доставки и в outbox, наружу не выходит.
// Ошибкой возвращаются только сбои БД.
func (s *ServiceImpl) DeliverNext(ctx context.Context, tenantID uuid.UUID) (entity.DeliveryOutcome, error) {
	entry, err := s.transactions.ClaimNextPending(ctx, tenantID)
	if err != nil {
		s.countClaim("error")
		return entity.DeliveryOutcome{}, err
	}
	if entry == nil {
		s.countClaim("empty")
		return entity.DeliveryOutcome{Result: entity.ResultIdle}, nil
	}
	s.countClaim("claimed")

	channel := s.dispatcher.Name()
	outcome := entity.DeliveryOutcome{Entry: entry}

	rec, err := s.transactions.EnsureDeliveryRecord(ctx, entry, channel)
	if err != nil {
		// запись остаётся в processing, sweeper вернёт её в pending после lease
		s.logger.Errorf("[ID %d] ensure delivery record failed: %v", entry.ID, err)
		return outcome, err
	}
	outcome.Record = rec

	settleCtx := context.WithoutCancel(ctx)

	if rec.Status.Terminal() {
		// ревизия уже доставлена (или провалена): повторно не отправляем
		if err := s.transactions.ReconcileEntry(settleCtx, rec, entry); err != nil {
			s.logger.Errorf("[ID %d] reconcile with delivery record %d failed: %v", entry.ID, rec.ID, err)
		}
		s.countDelivery(channel, "reconciled")
		s.logger.Infow("delivery reconciled", "outboxEntryId", entry.ID, "revision", entry.Revision, "record", rec.ID, "status", rec.Status)
		outcome.Result = entity.ResultReconciled
		return outcome, nil
	}

	ref, dispatchErr := s.dispatch(ctx, entry)
	if dispatchErr != nil && errors.Is(ctx.Err(), context.Canceled) {
		// остановка или ребаланс: это не провал ревизии. Запись доставки остаётся pending,
		// запись outbox остаётся в processing до lease
		s.countDelivery(channel, "aborted")
		s.logger.Infow("delivery aborted", "outboxEntryId", entry.ID, "revision", entry.Revision, "err", dispatchErr)
		outcome.Result = entity.ResultAborted
		return outcome, nil
	}
	if dispatchErr != nil {
		msg := common.Truncate(dispatchErr.Error(), maxErrorLen)
		if err := s.transactions.MarkDeliveryFailure(settleCtx, rec, entry, msg); err != nil {
			s.logger.Errorf("[ID %d] mark delivery failure failed: %v", entry.ID, err)
		}
		if rec.Status == entity.DeliverySuccess {
			// ревизию уже доставил другой воркер
			s.countDelivery(channel, "reconciled")
			outcome.Result = entity.ResultReconciled
			return outcome, nil
		}
		s.countDelivery(channel, "failure")
		s.logger.Warnw("delivery failed", "outboxEntryId", entry.ID, "revision", entry.Revision, "eventType", entry.EventType, "err", msg)

		outcome.Result = entity.ResultFailed
		outcome.ErrorMsg = msg
		return outcome, nil
	}

	if err := s.transactions.MarkDeliverySuccess(settleCtx, rec, entry, ref); err != nil {
		// отправлено, но не записано: после lease запись уйдёт повторно (at-least-once)
		s.logger.Errorf("[ID %d] mark delivery success failed: %v", entry.ID, err)
		return outcome, err
	}
	if rec.Status != entity.DeliverySuccess || rec.ExternalRef != ref {
		// запись закрыл другой воркер, outbox выровнен по ней
		s.countDelivery(channel, "reconciled")
		s.logger.Infow("delivery reconciled", "outboxEntryId", entry.ID, "revision", entry.Revision, "record", rec.ID, "status", rec.Status)
		outcome.Result = entity.ResultReconciled
		return outcome, nil
	}
	s.countDelivery(channel, "success")
	s.logger.Infow("delivered", "outboxEntryId", entry.ID, "revision", entry.Revision, "eventType", entry.EventType, "channel", channel, "ref", ref)

	outcome.Result = entity.ResultDelivered
	return outcome, nil
}

func (s *ServiceImpl) dispatch(ctx context.Context, entry *entity.OutboxEntry) (string, error) {
	if _, err := entity.DecodePayload(entry.EventType, entry.Payload); err != nil {
		return "", err
	}

	timeout := s.delivery.DispatchTimeout
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	start := time.Now()
	ref, err := s.dispatcher.Dispatch(ctx, entity.NewNotification(*entry))
	if s.m != nil {
		res := "ok"
		if err != nil {
			res = "error"
		}
		s.m.Delivery.DispatchDurationSeconds.WithLabelValues(s.dispatcher.Name(), res).Observe(time.Since(start).Seconds())
	}
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("dispatch timed out after %s: %w", timeout, err)
	}
	return ref, err
}

// HandleDeliveryJob - обработчик задачи из очереди. outboxEntryId только подсказка:
// воркер всегда берёт самую старую pending запись тенанта.
func (s *ServiceImpl) HandleDeliveryJob(ctx context.Context, job entity.DeliveryJob) error {
	outcome, err := s.DeliverNext(ctx, job.TenantID)
	if err != nil {
		return err
	}
	if outcome.Entry != nil && outcome.Entry.ID != job.OutboxEntryID {
		s.logger.Debugw("claimed entry differs from job hint", "job", job.OutboxEntryID, "claimed", outcome.Entry.ID)
	}
	return nil
}

func (s *ServiceImpl) countClaim(result string) {
	if s.m != nil {
		s.m.Delivery.ClaimsTotal.WithLabelValues(result).Inc()
	}
}

func (s *ServiceImpl) countDelivery(channel, result string) {
	if s.m != nil {
		s.m.Delivery.DeliveriesTotal.WithLabelValues(channel, result).Inc()
	}
}
