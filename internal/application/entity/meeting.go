package entity

import (
	"time"

	"github.com/gofrs/uuid"
)

type MeetingStatus string

const (
	MeetingStatusPlanned   MeetingStatus = "planned"
	MeetingStatusCompleted MeetingStatus = "completed"
)

type Meeting struct {
	ID          uuid.UUID     `json:"id"`
	TenantID    uuid.UUID     `json:"tenantId"`
	Title       string        `json:"title"`
	MeetingDate time.Time     `json:"meetingDate"`
	Status      MeetingStatus `json:"status"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type BusinessAction string

const (
	ActionSustain BusinessAction = "sustain"
	ActionRelease BusinessAction = "release"
)

// BusinessLine - пункт "дел прихода", объявляемый на собрании
type BusinessLine struct {
	ID           int64          `json:"id"`
	TenantID     uuid.UUID      `json:"tenantId"`
	MeetingID    uuid.UUID      `json:"meetingId"`
	AssignmentID uuid.UUID      `json:"assignmentId"`
	MemberName   string         `json:"memberName"`
	CallingName  string         `json:"callingName"`
	ActionType   BusinessAction `json:"actionType"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// PublishSnapshot - неизменяемая версия опубликованной программы собрания
type PublishSnapshot struct {
	ID        int64     `json:"id"`
	TenantID  uuid.UUID `json:"tenantId"`
	MeetingID uuid.UUID `json:"meetingId"`
	Version   int       `json:"version"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateMeetingRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	MeetingDate string `json:"meetingDate" validate:"required,rfc3339"`
}

type PublishRequest struct {
	Content string `json:"content" validate:"required,min=1,max=200000"`
}

type PublishResult struct {
	MeetingID   uuid.UUID `json:"meetingId"`
	Version     int       `json:"version"`
	OutboxEntry int64     `json:"outboxEntryId"`
	Republished bool      `json:"republished"`
}
