package repo

import (
	"context"
	"fmt"
	"wardflow/internal/application/entity"

	"github.com/gofrs/uuid"
)

// EnsureDeliveryRecord создаёт запись доставки для (entry, revision, channel), если её нет,
// и возвращает актуальную. Существующая запись не меняется.
func (r *RepoImpl) EnsureDeliveryRecord(ctx context.Context, e *entity.OutboxEntry, channel string) (*entity.DeliveryRecord, error) {
	tag, err := r.db.Exec(ctx, insertDeliveryIfAbsentQuery, e.TenantID, e.ID, e.Revision, channel)
	if err != nil {
		return nil, fmt.Errorf("insert delivery_record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Infof("[ID %d] delivery record for revision %d/%s already exists", e.ID, e.Revision, channel)
	}

	var d entity.DeliveryRecord
	err = r.db.QueryRow(ctx, getDeliveryQuery, e.ID, e.Revision, channel).Scan(
		&d.ID, &d.TenantID, &d.OutboxEntryID, &d.Revision, &d.Channel, &d.Status,
		&d.AttemptedAt, &d.ErrorMessage, &d.ExternalRef, &d.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("select delivery_record: %w", err)
	}
	return &d, nil
}

// SettleDeliveryRecord переводит pending запись в терминальный статус; false - запись уже была закрыта
func (r *RepoImpl) SettleDeliveryRecord(ctx context.Context, recordID int64, status entity.DeliveryStatus, errMsg, externalRef string) (bool, error) {
	tag, err := r.db.Exec(ctx, settleDeliveryQuery, recordID, status, errMsg, externalRef)
	if err != nil {
		return false, fmt.Errorf("settle delivery_record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RepoImpl) ListDeliveries(ctx context.Context, tenantID uuid.UUID, limit int) ([]entity.DeliveryDiagnostic, error) {
	rows, err := r.db.Query(ctx, listDeliveriesQuery, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("select delivery_records: %w", err)
	}
	defer rows.Close()

	res := make([]entity.DeliveryDiagnostic, 0)
	for rows.Next() {
		var d entity.DeliveryDiagnostic
		if err := rows.Scan(
			&d.ID, &d.TenantID, &d.OutboxEntryID, &d.Revision, &d.Channel, &d.Status,
			&d.AttemptedAt, &d.ErrorMessage, &d.ExternalRef, &d.CreatedAt,
			&d.EventType, &d.SubjectType, &d.SubjectID, &d.OutboxStatus, &d.LastError,
		); err != nil {
			return nil, fmt.Errorf("scan delivery_record: %w", err)
		}
		res = append(res, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("delivery_records rows err: %w", err)
	}
	return res, nil
}
