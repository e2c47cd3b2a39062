package entity

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
)

type OutboxStatus string

const (
	OutboxPending    OutboxStatus = "pending"
	OutboxProcessing OutboxStatus = "processing"
	OutboxProcessed  OutboxStatus = "processed"
	OutboxFailed     OutboxStatus = "failed"
)

type OutboxSubject string

const (
	SubjectCallingAssignment OutboxSubject = "calling_assignment"
	SubjectMeeting           OutboxSubject = "meeting"
)

type OutboxEventType string

const (
	EventCallingSustained        OutboxEventType = "calling.sustained"
	EventCallingSetApart         OutboxEventType = "calling.set_apart"
	EventCallingReleaseAnnounced OutboxEventType = "calling.release_announced"
	EventMeetingCompleted        OutboxEventType = "meeting.completed"
	EventMeetingPublished        OutboxEventType = "meeting.published"
	EventMeetingRepublished      OutboxEventType = "meeting.republished"
)

// CoalesceKey - ключ схлопывания в outbox. published/republished одного собрания
// живут в одной строке: новая публикация перекрывает предыдущую.
func (t OutboxEventType) CoalesceKey() string {
	switch t {
	case EventMeetingPublished, EventMeetingRepublished:
		return "meeting.publish"
	default:
		return string(t)
	}
}

type OutboxEntry struct {
	ID          int64           `json:"id"`
	TenantID    uuid.UUID       `json:"tenantId"`
	SubjectType OutboxSubject   `json:"subjectType"`
	SubjectID   uuid.UUID       `json:"subjectId"`
	EventType   OutboxEventType `json:"eventType"`
	Payload     json.RawMessage `json:"payload"`
	Status      OutboxStatus    `json:"status"`
	Revision    int             `json:"revision"` // растёт при каждом upsert и повторной доставке
	Attempts    int             `json:"attempts"`
	LastError   string          `json:"lastError,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IdempotencyKey - ключ для потребителей: одна ревизия события = один ключ
func (e OutboxEntry) IdempotencyKey() string {
	return idempotencyKey(e.ID, e.Revision)
}

// NewOutboxEntry собирает запись outbox из типизированного payload
func NewOutboxEntry(tenantID uuid.UUID, p EventPayload) (OutboxEntry, error) {
	if err := p.validate(); err != nil {
		return OutboxEntry{}, err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return OutboxEntry{}, err
	}
	return OutboxEntry{
		TenantID:    tenantID,
		SubjectType: p.SubjectType(),
		SubjectID:   p.SubjectID(),
		EventType:   p.EventType(),
		Payload:     raw,
		Status:      OutboxPending,
	}, nil
}

// DeliveryJob - контракт задачи для очереди доставки
type DeliveryJob struct {
	TenantID      uuid.UUID `json:"tenantId"`
	OutboxEntryID int64     `json:"outboxEntryId"`
}

// StaleOutboxRef - ссылка на зависшую pending запись для повторной постановки в очередь
type StaleOutboxRef struct {
	TenantID uuid.UUID
	ID       int64
}
