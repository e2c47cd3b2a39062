package repo

import (
	"context"
	"fmt"
	"wardflow/internal/appers"
	"wardflow/internal/application/entity"
	"wardflow/internal/application/lifecycle"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// Transactions - единицы работы, каждая ровно в одной транзакции БД.
// Все записи outbox, которые они возвращают, закоммичены вместе с изменением состояния.
type Transactions interface {
	CreateAssignment(ctx context.Context, a *entity.CallingAssignment) error
	ApplyTransition(ctx context.Context, tenantID, id uuid.UUID, from, to lifecycle.Stage, in entity.TransitionInput) (*entity.CallingTransition, []entity.OutboxEntry, error)
	ScheduleRelease(ctx context.Context, tenantID, id, meetingID uuid.UUID) (*entity.BusinessLine, error)

	CreateMeeting(ctx context.Context, m *entity.Meeting) error
	CompleteMeeting(ctx context.Context, tenantID, meetingID uuid.UUID) (*entity.Meeting, []entity.OutboxEntry, error)
	PublishMeeting(ctx context.Context, tenantID, meetingID uuid.UUID, content string) (*entity.PublishSnapshot, *entity.OutboxEntry, error)

	ClaimNextPending(ctx context.Context, tenantID uuid.UUID) (*entity.OutboxEntry, error)
	EnsureDeliveryRecord(ctx context.Context, e *entity.OutboxEntry, channel string) (*entity.DeliveryRecord, error)
	MarkDeliverySuccess(ctx context.Context, rec *entity.DeliveryRecord, e *entity.OutboxEntry, externalRef string) error
	MarkDeliveryFailure(ctx context.Context, rec *entity.DeliveryRecord, e *entity.OutboxEntry, msg string) error
	ReconcileEntry(ctx context.Context, rec *entity.DeliveryRecord, e *entity.OutboxEntry) error
	Redeliver(ctx context.Context, tenantID uuid.UUID, id int64) (*entity.OutboxEntry, error)
}
type TransactionsImpl struct {
	repo   *RepoImpl
	logger *zap.SugaredLogger
}

func NewTransactions(repo *RepoImpl, logger *zap.SugaredLogger) *TransactionsImpl {
	return &TransactionsImpl{repo: repo, logger: logger}
}

func (t *TransactionsImpl) CreateAssignment(ctx context.Context, a *entity.CallingAssignment) error {
	a.CurrentStage = lifecycle.Initial()

	return t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := t.repo.CreateAssignment(ctx, a); err != nil {
			return err
		}
		// первая запись журнала, чтобы current_stage всегда совпадал с последней записью
		return t.repo.InsertTransition(ctx, &entity.CallingTransition{
			AssignmentID: a.ID,
			TenantID:     a.TenantID,
			Stage:        a.CurrentStage,
		})
	})
}

func (t *TransactionsImpl) ApplyTransition(ctx context.Context, tenantID, id uuid.UUID, from, to lifecycle.Stage, in entity.TransitionInput) (*entity.CallingTransition, []entity.OutboxEntry, error) {
	var (
		record  *entity.CallingTransition
		entries []entity.OutboxEntry
	)
	err := t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		a, err := t.repo.LockAssignment(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if in.MeetingID.Valid {
			if _, err := t.repo.GetMeeting(ctx, tenantID, in.MeetingID.UUID); err != nil {
				return err
			}
		}

		outcome, err := t.repo.AppendTransition(ctx, tenantID, id, from, to, in)
		if err != nil {
			return err
		}
		if !outcome.Accepted {
			t.logger.Infof("[assignment: %s] transition %s -> %s rejected: %s (current %s)", id, from, to, outcome.Reason, outcome.Current)
			return rejectionError(outcome.Reason)
		}
		record = outcome.Record

		var payload entity.EventPayload
		switch to {
		case lifecycle.StageSustained:
			// после проверки перехода: proposed -> sustained отвечает ErrInvalidTransition
			if !in.MeetingID.Valid {
				return appers.ErrMeetingRequired
			}
			line := &entity.BusinessLine{
				TenantID:     tenantID,
				MeetingID:    in.MeetingID.UUID,
				AssignmentID: id,
				MemberName:   a.MemberName,
				CallingName:  a.PositionName,
				ActionType:   entity.ActionSustain,
			}
			if err := t.repo.AddBusinessLine(ctx, line); err != nil {
				return err
			}
			payload = entity.CallingSustained{CallingAssignmentID: id, MeetingID: in.MeetingID.UUID}
		case lifecycle.StageSetApart:
			payload = entity.CallingSetApart{CallingAssignmentID: id, Instruction: in.Instruction}
		default:
			// extended событий не порождает
			return nil
		}

		entry, err := t.upsert(ctx, tenantID, payload)
		if err != nil {
			return err
		}
		entries = append(entries, *entry)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return record, entries, nil
}

func rejectionError(reason entity.RejectReason) error {
	if reason == entity.RejectStaleStage {
		return appers.ErrStaleStage
	}
	return appers.ErrInvalidTransition
}

// ScheduleRelease добавляет строку об освобождении от призвания в дела собрания
func (t *TransactionsImpl) ScheduleRelease(ctx context.Context, tenantID, id, meetingID uuid.UUID) (*entity.BusinessLine, error) {
	var line *entity.BusinessLine
	err := t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		m, err := t.repo.LockMeeting(ctx, tenantID, meetingID)
		if err != nil {
			return err
		}
		if m.Status == entity.MeetingStatusCompleted {
			return appers.ErrMeetingCompleted
		}
		a, err := t.repo.GetAssignment(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if !lifecycle.IsSustained(a.CurrentStage) {
			t.logger.Infof("[assignment: %s] release rejected, stage %s", id, a.CurrentStage)
			return appers.ErrAssignmentInactive
		}

		line = &entity.BusinessLine{
			TenantID:     tenantID,
			MeetingID:    meetingID,
			AssignmentID: id,
			MemberName:   a.MemberName,
			CallingName:  a.PositionName,
			ActionType:   entity.ActionRelease,
		}
		return t.repo.AddBusinessLine(ctx, line)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (t *TransactionsImpl) CreateMeeting(ctx context.Context, m *entity.Meeting) error {
	return t.repo.CreateMeeting(ctx, m)
}

// CompleteMeeting закрывает собрание и публикует meeting.completed
// и calling.release_announced по каждой строке освобождения.
func (t *TransactionsImpl) CompleteMeeting(ctx context.Context, tenantID, meetingID uuid.UUID) (*entity.Meeting, []entity.OutboxEntry, error) {
	var (
		meeting *entity.Meeting
		entries []entity.OutboxEntry
	)
	err := t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		m, err := t.repo.LockMeeting(ctx, tenantID, meetingID)
		if err != nil {
			return err
		}
		if m.Status == entity.MeetingStatusCompleted {
			return appers.ErrMeetingCompleted
		}
		if err := t.repo.MarkMeetingCompleted(ctx, m); err != nil {
			return err
		}
		meeting = m

		lines, err := t.repo.ListBusinessLines(ctx, tenantID, meetingID)
		if err != nil {
			return err
		}

		announced := make([]entity.AnnouncedBusinessLine, 0, len(lines))
		for _, l := range lines {
			announced = append(announced, entity.AnnouncedBusinessLine{
				MemberName:  l.MemberName,
				CallingName: l.CallingName,
				ActionType:  l.ActionType,
			})
		}
		entry, err := t.upsert(ctx, tenantID, entity.MeetingCompleted{MeetingID: meetingID, AnnouncedBusinessLines: announced})
		if err != nil {
			return err
		}
		entries = append(entries, *entry)

		for _, l := range lines {
			if l.ActionType != entity.ActionRelease {
				continue
			}
			entry, err := t.upsert(ctx, tenantID, entity.CallingReleaseAnnounced{CallingAssignmentID: l.AssignmentID, MeetingID: meetingID})
			if err != nil {
				return err
			}
			entries = append(entries, *entry)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return meeting, entries, nil
}

// PublishMeeting: блокировка собрания -> следующая версия -> снимок -> published/republished
func (t *TransactionsImpl) PublishMeeting(ctx context.Context, tenantID, meetingID uuid.UUID, content string) (*entity.PublishSnapshot, *entity.OutboxEntry, error) {
	var (
		snapshot *entity.PublishSnapshot
		entry    *entity.OutboxEntry
	)
	err := t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := t.repo.LockMeeting(ctx, tenantID, meetingID); err != nil {
			return err
		}
		version, err := t.repo.NextSnapshotVersion(ctx, meetingID)
		if err != nil {
			return err
		}

		snapshot = &entity.PublishSnapshot{
			TenantID:  tenantID,
			MeetingID: meetingID,
			Version:   version,
			Content:   content,
		}
		if err := t.repo.InsertSnapshot(ctx, snapshot); err != nil {
			return err
		}

		entry, err = t.upsert(ctx, tenantID, entity.MeetingPublished{MeetingID: meetingID, Version: version})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	t.logger.Infof("[meeting: %s] published version %d", meetingID, snapshot.Version)
	return snapshot, entry, nil
}

func (t *TransactionsImpl) upsert(ctx context.Context, tenantID uuid.UUID, p entity.EventPayload) (*entity.OutboxEntry, error) {
	entry, err := entity.NewOutboxEntry(tenantID, p)
	if err != nil {
		return nil, fmt.Errorf("build outbox entry %s: %w", p.EventType(), err)
	}
	if err := t.repo.UpsertOutbox(ctx, &entry); err != nil {
		t.logger.Errorf("[subject: %s] upsert outbox %s failed: %v", entry.SubjectID, entry.EventType, err)
		return nil, err
	}
	return &entry, nil
}

// ClaimNextPending - отдельная короткая транзакция, блокировка снимается сразу после смены статуса
func (t *TransactionsImpl) ClaimNextPending(ctx context.Context, tenantID uuid.UUID) (*entity.OutboxEntry, error) {
	var entry *entity.OutboxEntry
	err := t.repo.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		entry, err = t.repo.ClaimNextPending(txCtx, tenantID)
		return err
	})
	if err != nil {
		t.logger.Errorw("claim outbox entry failed", "tenant", tenantID, "err", err)
		return nil, err
	}
	return entry, nil
}

func (t *TransactionsImpl) EnsureDeliveryRecord(ctx context.Context, e *entity.OutboxEntry, channel string) (*entity.DeliveryRecord, error) {
	return t.repo.EnsureDeliveryRecord(ctx, e, channel)
}

// MarkDeliverySuccess: запись доставки success и outbox processed в одной транзакции
func (t *TransactionsImpl) MarkDeliverySuccess(ctx context.Context, rec *entity.DeliveryRecord, e *entity.OutboxEntry, externalRef string) error {
	t.logger.Infof("[ID %d] start transaction to mark revision %d as delivered", e.ID, e.Revision)
	return t.settle(ctx, rec, e, entity.DeliverySuccess, "", externalRef)
}

// MarkDeliveryFailure: запись доставки failure и outbox failed в одной транзакции
func (t *TransactionsImpl) MarkDeliveryFailure(ctx context.Context, rec *entity.DeliveryRecord, e *entity.OutboxEntry, msg string) error {
	return t.settle(ctx, rec, e, entity.DeliveryFailure, msg, "")
}

// settle закрывает запись доставки и выставляет статус outbox. Если запись уже закрыта
// другим воркером, outbox выравнивается по её итогу, а rec заменяется прочитанной записью.
func (t *TransactionsImpl) settle(ctx context.Context, rec *entity.DeliveryRecord, e *entity.OutboxEntry, status entity.DeliveryStatus, msg, externalRef string) error {
	return t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		settled, err := t.repo.SettleDeliveryRecord(ctx, rec.ID, status, msg, externalRef)
		if err != nil {
			return err
		}
		if !settled {
			current, err := t.repo.EnsureDeliveryRecord(ctx, e, rec.Channel)
			if err != nil {
				return err
			}
			t.logger.Infof("[ID %d] delivery record %d already settled as %s, reconciling", e.ID, current.ID, current.Status)
			*rec = *current
			return t.ReconcileEntry(ctx, current, e)
		}
		rec.Status = status
		rec.ErrorMessage = msg
		rec.ExternalRef = externalRef

		var ok bool
		if status == entity.DeliverySuccess {
			ok, err = t.repo.MarkProcessed(ctx, e.ID, e.Revision)
		} else {
			ok, err = t.repo.MarkFailed(ctx, e.ID, e.Revision, msg)
		}
		if err != nil {
			return err
		}
		if !ok {
			t.logger.Infof("[ID %d] revision %d superseded while delivering, entry left pending", e.ID, e.Revision)
		}
		return nil
	})
}

// ReconcileEntry выравнивает статус outbox по уже терминальной записи доставки без повторной отправки
func (t *TransactionsImpl) ReconcileEntry(ctx context.Context, rec *entity.DeliveryRecord, e *entity.OutboxEntry) error {
	var err error
	switch rec.Status {
	case entity.DeliverySuccess:
		_, err = t.repo.MarkProcessed(ctx, e.ID, e.Revision)
	case entity.DeliveryFailure:
		_, err = t.repo.MarkFailed(ctx, e.ID, e.Revision, rec.ErrorMessage)
	default:
		return fmt.Errorf("delivery record %d is not terminal: %s", rec.ID, rec.Status)
	}
	return err
}

// Redeliver - ручной повтор оператором: новая ревизия, снова pending
func (t *TransactionsImpl) Redeliver(ctx context.Context, tenantID uuid.UUID, id int64) (*entity.OutboxEntry, error) {
	var entry *entity.OutboxEntry
	err := t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = t.repo.ResetForRedelivery(ctx, tenantID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	t.logger.Infof("[ID %d] reset for redelivery, revision %d", entry.ID, entry.Revision)
	return entry, nil
}

