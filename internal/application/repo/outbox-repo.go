package repo

import (
	"context"
	"errors"
	"fmt"
	"time"
	"wardflow/internal/appers"
	"wardflow/internal/application/common"
	"wardflow/internal/application/entity"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
)

// UpsertOutbox вставляет факт или схлопывает его с уже существующим по ключу
// (tenant_id, event_key, subject_id). Вызывается только внутри транзакции-источника.
func (r *RepoImpl) UpsertOutbox(ctx context.Context, e *entity.OutboxEntry) error {
	r.logger.Debugf("[subject: %s] UpsertOutbox %s started", e.SubjectID, e.EventType)

	err := r.db.QueryRow(ctx, upsertOutboxQuery,
		e.TenantID, e.SubjectType, e.SubjectID, e.EventType, e.EventType.CoalesceKey(), []byte(e.Payload),
	).Scan(&e.ID, &e.Status, &e.Revision, &e.Attempts, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert outbox_entry: %w", err)
	}
	e.LastError = ""

	if e.Revision > 1 {
		r.logger.Infof("[ID %d] outbox %s coalesced, revision %d", e.ID, e.EventType, e.Revision)
	}
	return nil
}

// ClaimNextPending забирает самую старую pending запись тенанта (SKIP LOCKED).
// nil, nil - забирать нечего.
func (r *RepoImpl) ClaimNextPending(ctx context.Context, tenantID uuid.UUID) (*entity.OutboxEntry, error) {
	e, err := scanOutbox(r.db.QueryRow(ctx, claimNextPendingQuery, tenantID))
	switch {
	case err == nil:
		return e, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	default:
		return nil, fmt.Errorf("claim outbox_entry: %w", err)
	}
}

// MarkProcessed возвращает false, если ревизия уже сменилась (запись схлопнули во время доставки)
func (r *RepoImpl) MarkProcessed(ctx context.Context, id int64, revision int) (bool, error) {
	tag, err := r.db.Exec(ctx, markProcessedQuery, id, revision)
	if err != nil {
		return false, fmt.Errorf("outbox mark processed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RepoImpl) MarkFailed(ctx context.Context, id int64, revision int, msg string) (bool, error) {
	tag, err := r.db.Exec(ctx, markFailedQuery, id, revision, msg)
	if err != nil {
		return false, fmt.Errorf("outbox mark failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RepoImpl) GetOutboxEntry(ctx context.Context, tenantID uuid.UUID, id int64) (*entity.OutboxEntry, error) {
	e, err := scanOutbox(r.db.QueryRow(ctx, getOutboxEntryQuery, tenantID, id))
	switch {
	case err == nil:
		return e, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, appers.ErrOutboxNotFound
	default:
		return nil, fmt.Errorf("select outbox_entry: %w", err)
	}
}

// RequeueStaleProcessing возвращает в pending записи, зависшие в processing дольше lease.
// Ревизия не меняется, поэтому pending запись доставки переиспользуется.
func (r *RepoImpl) RequeueStaleProcessing(ctx context.Context, lease time.Duration) ([]entity.StaleOutboxRef, error) {
	rows, err := r.db.Query(ctx, requeueStaleProcessingQuery, common.PgInterval(lease))
	if err != nil {
		return nil, fmt.Errorf("requeue stale processing: %w", err)
	}
	return scanStaleRefs(rows)
}

func (r *RepoImpl) ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]entity.StaleOutboxRef, error) {
	r.logger.Debugf("[olderThan: %s, limit: %d] ListStalePending started", olderThan, limit)

	rows, err := r.db.Query(ctx, listStalePendingQuery, common.PgInterval(olderThan), limit)
	if err != nil {
		return nil, fmt.Errorf("list stale pending: %w", err)
	}
	return scanStaleRefs(rows)
}

func scanStaleRefs(rows pgx.Rows) ([]entity.StaleOutboxRef, error) {
	defer rows.Close()

	var res []entity.StaleOutboxRef
	for rows.Next() {
		var ref entity.StaleOutboxRef
		if err := rows.Scan(&ref.TenantID, &ref.ID); err != nil {
			return nil, fmt.Errorf("scan stale outbox ref: %w", err)
		}
		res = append(res, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stale outbox rows err: %w", err)
	}
	return res, nil
}

// ResetForRedelivery: processed/failed -> pending с новой ревизией
func (r *RepoImpl) ResetForRedelivery(ctx context.Context, tenantID uuid.UUID, id int64) (*entity.OutboxEntry, error) {
	e, err := scanOutbox(r.db.QueryRow(ctx, resetForRedeliveryQuery, tenantID, id))
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("reset outbox_entry: %w", err)
	}
	// строка либо не найдена, либо ещё не в терминальном статусе
	if _, err := r.GetOutboxEntry(ctx, tenantID, id); err != nil {
		return nil, err
	}
	return nil, appers.ErrNotRedeliverable
}

func scanOutbox(row pgx.Row) (*entity.OutboxEntry, error) {
	var e entity.OutboxEntry
	var payload []byte
	if err := row.Scan(
		&e.ID, &e.TenantID, &e.SubjectType, &e.SubjectID, &e.EventType, &payload,
		&e.Status, &e.Revision, &e.Attempts, &e.LastError, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Payload = payload
	return &e, nil
}
