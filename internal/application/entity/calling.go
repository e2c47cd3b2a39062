package entity

import (
	"time"
	"wardflow/internal/application/lifecycle"

	"github.com/gofrs/uuid"
)

type CallingAssignment struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenantId"`
	MemberName   string          `json:"memberName"`
	PositionName string          `json:"positionName"`
	CurrentStage lifecycle.Stage `json:"currentStage"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CallingTransition - запись журнала переходов, только вставка
type CallingTransition struct {
	ID           int64           `json:"id"`
	AssignmentID uuid.UUID       `json:"assignmentId"`
	TenantID     uuid.UUID       `json:"tenantId"`
	Stage        lifecycle.Stage `json:"stage"`
	MeetingID    uuid.NullUUID   `json:"meetingId"`
	Instruction  string          `json:"instruction,omitempty"`
	RecordedAt   time.Time       `json:"recordedAt"`
}

type CallingAssignmentDetails struct {
	CallingAssignment
	Transitions []CallingTransition `json:"transitions"`
}

// TransitionInput - данные, которые сопровождают переход
type TransitionInput struct {
	MeetingID   uuid.NullUUID
	Instruction string
}

type RejectReason string

const (
	RejectInvalidTransition RejectReason = "invalid_transition"
	RejectStaleStage        RejectReason = "stale_stage"
)

// TransitionOutcome - результат AppendTransition. Отказ это значение, а не ошибка.
type TransitionOutcome struct {
	Accepted bool
	Reason   RejectReason
	Current  lifecycle.Stage
	Record   *CallingTransition
}

// CreateAssignmentRequest тело запроса на создание назначения
type CreateAssignmentRequest struct {
	MemberName   string `json:"memberName" validate:"required,min=1,max=200"`
	PositionName string `json:"positionName" validate:"required,min=1,max=200"`
}

// TransitionRequest тело запроса на переход стадии
type TransitionRequest struct {
	From        string `json:"from" validate:"required,stage"`
	To          string `json:"to" validate:"required,stage"`
	MeetingID   string `json:"meetingId" validate:"omitempty,uuid"`
	Instruction string `json:"instruction" validate:"omitempty,max=2000"`
}

type SustainRequest struct {
	MeetingID string `json:"meetingId" validate:"required,uuid"`
}

type SetApartRequest struct {
	Instruction string `json:"instruction" validate:"required,min=1,max=2000"`
}

type ReleaseRequest struct {
	MeetingID string `json:"meetingId" validate:"required,uuid"`
}
