package entity

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofrs/uuid"
)

type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySuccess DeliveryStatus = "success"
	DeliveryFailure DeliveryStatus = "failure"
)

func (s DeliveryStatus) Terminal() bool {
	return s == DeliverySuccess || s == DeliveryFailure
}

// DeliveryRecord - факт попытки доставки ревизии события в конкретный канал.
// Уникален по (outbox_entry_id, revision, channel).
type DeliveryRecord struct {
	ID            int64          `json:"id"`
	TenantID      uuid.UUID      `json:"tenantId"`
	OutboxEntryID int64          `json:"outboxEntryId"`
	Revision      int            `json:"revision"`
	Channel       string         `json:"channel"`
	Status        DeliveryStatus `json:"status"`
	AttemptedAt   time.Time      `json:"attemptedAt"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
	ExternalRef   string         `json:"externalRef,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// DeliveryDiagnostic - строка диагностического отчёта: запись доставки + тип и субъект события
type DeliveryDiagnostic struct {
	DeliveryRecord
	EventType    OutboxEventType `json:"eventType"`
	SubjectType  OutboxSubject   `json:"subjectType"`
	SubjectID    uuid.UUID       `json:"subjectId"`
	OutboxStatus OutboxStatus    `json:"outboxStatus"`
	LastError    string          `json:"lastError,omitempty"`
}

// Notification - то, что уходит в канал доставки
type Notification struct {
	TenantID       uuid.UUID       `json:"tenantId"`
	OutboxEntryID  int64           `json:"outboxEntryId"`
	Revision       int             `json:"revision"`
	EventType      OutboxEventType `json:"eventType"`
	SubjectType    OutboxSubject   `json:"subjectType"`
	SubjectID      uuid.UUID       `json:"subjectId"`
	Payload        json.RawMessage `json:"payload"`
	OccurredAt     time.Time       `json:"occurredAt"`
	IdempotencyKey string          `json:"idempotencyKey"`
}

func NewNotification(e OutboxEntry) Notification {
	return Notification{
		TenantID:       e.TenantID,
		OutboxEntryID:  e.ID,
		Revision:       e.Revision,
		EventType:      e.EventType,
		SubjectType:    e.SubjectType,
		SubjectID:      e.SubjectID,
		Payload:        e.Payload,
		OccurredAt:     e.UpdatedAt,
		IdempotencyKey: e.IdempotencyKey(),
	}
}

// DeliveryResult - итог одного вызова воркера
type DeliveryResult string

const (
	ResultIdle       DeliveryResult = "idle" // нечего забирать
	ResultDelivered  DeliveryResult = "delivered"
	ResultFailed     DeliveryResult = "failed"
	ResultReconciled DeliveryResult = "reconciled" // запись доставки уже была терминальной
	ResultAborted    DeliveryResult = "aborted"    // контекст воркера отменён во время отправки
)

type DeliveryOutcome struct {
	Result   DeliveryResult
	Entry    *OutboxEntry
	Record   *DeliveryRecord
	ErrorMsg string
}

func idempotencyKey(entryID int64, revision int) string {
	return strconv.FormatInt(entryID, 10) + ":" + strconv.Itoa(revision)
}
