package entity

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
)

var ErrUnknownEventType = errors.New("unknown outbox event type")

// EventPayload - payload события outbox. У каждого типа события своя структура.
type EventPayload interface {
	EventType() OutboxEventType
	SubjectType() OutboxSubject
	SubjectID() uuid.UUID
	validate() error
}

type CallingSustained struct {
	CallingAssignmentID uuid.UUID `json:"callingAssignmentId"`
	MeetingID           uuid.UUID `json:"meetingId"`
}

func (CallingSustained) EventType() OutboxEventType { return EventCallingSustained }
func (CallingSustained) SubjectType() OutboxSubject { return SubjectCallingAssignment }
func (p CallingSustained) SubjectID() uuid.UUID     { return p.CallingAssignmentID }
func (p CallingSustained) validate() error {
	if p.CallingAssignmentID == uuid.Nil || p.MeetingID == uuid.Nil {
		return errors.New("callingAssignmentId and meetingId are required")
	}
	return nil
}

type CallingSetApart struct {
	CallingAssignmentID uuid.UUID `json:"callingAssignmentId"`
	Instruction         string    `json:"instruction"`
}

func (CallingSetApart) EventType() OutboxEventType { return EventCallingSetApart }
func (CallingSetApart) SubjectType() OutboxSubject { return SubjectCallingAssignment }
func (p CallingSetApart) SubjectID() uuid.UUID     { return p.CallingAssignmentID }
func (p CallingSetApart) validate() error {
	if p.CallingAssignmentID == uuid.Nil {
		return errors.New("callingAssignmentId is required")
	}
	return nil
}

type CallingReleaseAnnounced struct {
	CallingAssignmentID uuid.UUID `json:"callingAssignmentId"`
	MeetingID           uuid.UUID `json:"meetingId"`
}

func (CallingReleaseAnnounced) EventType() OutboxEventType { return EventCallingReleaseAnnounced }
func (CallingReleaseAnnounced) SubjectType() OutboxSubject { return SubjectCallingAssignment }
func (p CallingReleaseAnnounced) SubjectID() uuid.UUID     { return p.CallingAssignmentID }
func (p CallingReleaseAnnounced) validate() error {
	if p.CallingAssignmentID == uuid.Nil || p.MeetingID == uuid.Nil {
		return errors.New("callingAssignmentId and meetingId are required")
	}
	return nil
}

type AnnouncedBusinessLine struct {
	MemberName  string         `json:"memberName"`
	CallingName string         `json:"callingName"`
	ActionType  BusinessAction `json:"actionType"`
}

type MeetingCompleted struct {
	MeetingID              uuid.UUID               `json:"meetingId"`
	AnnouncedBusinessLines []AnnouncedBusinessLine `json:"announcedBusinessLines"`
}

func (MeetingCompleted) EventType() OutboxEventType { return EventMeetingCompleted }
func (MeetingCompleted) SubjectType() OutboxSubject { return SubjectMeeting }
func (p MeetingCompleted) SubjectID() uuid.UUID     { return p.MeetingID }
func (p MeetingCompleted) validate() error {
	if p.MeetingID == uuid.Nil {
		return errors.New("meetingId is required")
	}
	if p.AnnouncedBusinessLines == nil {
		return errors.New("announcedBusinessLines must be an array")
	}
	return nil
}

// MeetingPublished - первая публикация (version 1) или переопубликация (version > 1)
type MeetingPublished struct {
	MeetingID uuid.UUID `json:"meetingId"`
	Version   int       `json:"version"`
}

func (p MeetingPublished) EventType() OutboxEventType {
	if p.Version > 1 {
		return EventMeetingRepublished
	}
	return EventMeetingPublished
}
func (MeetingPublished) SubjectType() OutboxSubject { return SubjectMeeting }
func (p MeetingPublished) SubjectID() uuid.UUID     { return p.MeetingID }
func (p MeetingPublished) validate() error {
	if p.MeetingID == uuid.Nil {
		return errors.New("meetingId is required")
	}
	if p.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", p.Version)
	}
	return nil
}

// DecodePayload разбирает payload по типу события и проверяет обязательные поля
func DecodePayload(t OutboxEventType, raw json.RawMessage) (EventPayload, error) {
	var p EventPayload
	var err error
	switch t {
	case EventCallingSustained:
		var v CallingSustained
		err = json.Unmarshal(raw, &v)
		p = v
	case EventCallingSetApart:
		var v CallingSetApart
		err = json.Unmarshal(raw, &v)
		p = v
	case EventCallingReleaseAnnounced:
		var v CallingReleaseAnnounced
		err = json.Unmarshal(raw, &v)
		p = v
	case EventMeetingCompleted:
		var v MeetingCompleted
		err = json.Unmarshal(raw, &v)
		p = v
	case EventMeetingPublished, EventMeetingRepublished:
		var v MeetingPublished
		err = json.Unmarshal(raw, &v)
		p = v
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, t)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", t, err)
	}
	if p.EventType() != t {
		return nil, fmt.Errorf("payload describes %s, entry is %s", p.EventType(), t)
	}
	return p, nil
}
