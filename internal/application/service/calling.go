package service

import (
	"context"
	"wardflow/internal/application/entity"
	"wardflow/internal/application/lifecycle"

	"github.com/gofrs/uuid"
)

func (s *ServiceImpl) CreateAssignment(ctx context.Context, tenantID uuid.UUID, memberName, positionName string) (*entity.CallingAssignment, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	a := &entity.CallingAssignment{
		ID:           id,
		TenantID:     tenantID,
		MemberName:   memberName,
		PositionName: positionName,
	}
	s.logger.Debugf("[assignment: %s] CreateAssignment started", id)

	if err := s.transactions.CreateAssignment(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ServiceImpl) GetAssignment(ctx context.Context, tenantID, id uuid.UUID) (*entity.CallingAssignmentDetails, error) {
	a, err := s.repo.GetAssignment(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	transitions, err := s.repo.ListTransitions(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return &entity.CallingAssignmentDetails{CallingAssignment: *a, Transitions: transitions}, nil
}

// ApplyTransition двигает назначение на следующую стадию. События outbox пишутся
// в той же транзакции, задачи доставки ставятся после коммита.
func (s *ServiceImpl) ApplyTransition(ctx context.Context, tenantID, id uuid.UUID, from, to lifecycle.Stage, in entity.TransitionInput) (*entity.CallingTransition, error) {
	s.logger.Debugf("[assignment: %s] ApplyTransition %s -> %s started", id, from, to)

	record, entries, err := s.transactions.ApplyTransition(ctx, tenantID, id, from, to, in)
	if err != nil {
		return nil, err
	}
	s.enqueue(ctx, entries)
	return record, nil
}

func (s *ServiceImpl) SustainCalling(ctx context.Context, tenantID, id, meetingID uuid.UUID) (*entity.CallingTransition, error) {
	return s.ApplyTransition(ctx, tenantID, id, lifecycle.StageExtended, lifecycle.StageSustained, entity.TransitionInput{
		MeetingID: uuid.NullUUID{UUID: meetingID, Valid: !meetingID.IsNil()},
	})
}

func (s *ServiceImpl) SetApartCalling(ctx context.Context, tenantID, id uuid.UUID, instruction string) (*entity.CallingTransition, error) {
	return s.ApplyTransition(ctx, tenantID, id, lifecycle.StageSustained, lifecycle.StageSetApart, entity.TransitionInput{
		Instruction: instruction,
	})
}

func (s *ServiceImpl) ScheduleRelease(ctx context.Context, tenantID, id, meetingID uuid.UUID) (*entity.BusinessLine, error) {
	s.logger.Debugf("[assignment: %s] ScheduleRelease in meeting %s", id, meetingID)
	return s.transactions.ScheduleRelease(ctx, tenantID, id, meetingID)
}
