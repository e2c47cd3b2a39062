package service

import (
	"context"
	"time"
	"wardflow/internal/application/entity"

	"github.com/gofrs/uuid"
)

func (s *ServiceImpl) CreateMeeting(ctx context.Context, tenantID uuid.UUID, title string, date time.Time) (*entity.Meeting, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	m := &entity.Meeting{
		ID:          id,
		TenantID:    tenantID,
		Title:       title,
		MeetingDate: date.UTC(),
	}
	if err := s.transactions.CreateMeeting(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ServiceImpl) CompleteMeeting(ctx context.Context, tenantID, meetingID uuid.UUID) (*entity.Meeting, error) {
	s.logger.Debugf("[meeting: %s] CompleteMeeting started", meetingID)

	m, entries, err := s.transactions.CompleteMeeting(ctx, tenantID, meetingID)
	if err != nil {
		return nil, err
	}
	s.enqueue(ctx, entries)
	s.logger.Infof("[meeting: %s] completed, %d outbox entries written", meetingID, len(entries))
	return m, nil
}

// PublishMeeting сохраняет новую версию программы собрания и пишет
// meeting.published (версия 1) или meeting.republished.
func (s *ServiceImpl) PublishMeeting(ctx context.Context, tenantID, meetingID uuid.UUID, content string) (*entity.PublishResult, error) {
	s.logger.Debugf("[meeting: %s] PublishMeeting started", meetingID)

	snapshot, entry, err := s.transactions.PublishMeeting(ctx, tenantID, meetingID, content)
	if err != nil {
		return nil, err
	}
	s.enqueue(ctx, []entity.OutboxEntry{*entry})

	return &entity.PublishResult{
		MeetingID:   meetingID,
		Version:     snapshot.Version,
		OutboxEntry: entry.ID,
		Republished: snapshot.Version > 1,
	}, nil
}

func (s *ServiceImpl) LatestPublished(ctx context.Context, tenantID, meetingID uuid.UUID) (*entity.PublishSnapshot, error) {
	if _, err := s.repo.GetMeeting(ctx, tenantID, meetingID); err != nil {
		return nil, err
	}
	return s.repo.LatestPublished(ctx, tenantID, meetingID)
}

func (s *ServiceImpl) GetSnapshot(ctx context.Context, tenantID, meetingID uuid.UUID, version int) (*entity.PublishSnapshot, error) {
	return s.repo.GetSnapshot(ctx, tenantID, meetingID, version)
}

func (s *ServiceImpl) ListSnapshots(ctx context.Context, tenantID, meetingID uuid.UUID) ([]entity.PublishSnapshot, error) {
	if _, err := s.repo.GetMeeting(ctx, tenantID, meetingID); err != nil {
		return nil, err
	}
	return s.repo.ListSnapshots(ctx, tenantID, meetingID)
}
