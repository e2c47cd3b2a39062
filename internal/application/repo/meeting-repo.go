package repo

import (
	"context"
	"errors"
	"fmt"
	"wardflow/internal/appers"
	"wardflow/internal/application/entity"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
)

func (r *RepoImpl) CreateMeeting(ctx context.Context, m *entity.Meeting) error {
	r.logger.Debugf("[meeting: %s] start inserting into DB", m.ID)

	if err := r.db.QueryRow(ctx, insertMeetingQuery, m.ID, m.TenantID, m.Title, m.MeetingDate).Scan(&m.CreatedAt); err != nil {
		r.logger.Errorf("[meeting: %s] error inserting into DB: %v", m.ID, err)
		return fmt.Errorf("insert meeting: %w", err)
	}
	m.Status = entity.MeetingStatusPlanned
	return nil
}

func (r *RepoImpl) GetMeeting(ctx context.Context, tenantID, id uuid.UUID) (*entity.Meeting, error) {
	return r.scanMeeting(ctx, getMeetingQuery, tenantID, id)
}

// LockMeeting - строка собрания под FOR UPDATE. Через неё сериализуются публикации
// и завершение собрания.
func (r *RepoImpl) LockMeeting(ctx context.Context, tenantID, id uuid.UUID) (*entity.Meeting, error) {
	return r.scanMeeting(ctx, lockMeetingQuery, tenantID, id)
}

func (r *RepoImpl) scanMeeting(ctx context.Context, query string, tenantID, id uuid.UUID) (*entity.Meeting, error) {
	var m entity.Meeting
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&m.ID, &m.TenantID, &m.Title, &m.MeetingDate, &m.Status, &m.CompletedAt, &m.CreatedAt,
	)
	switch {
	case err == nil:
		return &m, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, appers.ErrMeetingNotFound
	default:
		return nil, fmt.Errorf("select meeting: %w", err)
	}
}

func (r *RepoImpl) MarkMeetingCompleted(ctx context.Context, m *entity.Meeting) error {
	err := r.db.QueryRow(ctx, completeMeetingQuery, m.TenantID, m.ID).Scan(&m.CompletedAt)
	switch {
	case err == nil:
		m.Status = entity.MeetingStatusCompleted
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return appers.ErrMeetingCompleted
	default:
		return fmt.Errorf("complete meeting: %w", err)
	}
}

func (r *RepoImpl) AddBusinessLine(ctx context.Context, l *entity.BusinessLine) error {
	err := r.db.QueryRow(ctx, insertBusinessLineQuery,
		l.TenantID, l.MeetingID, l.AssignmentID, l.MemberName, l.CallingName, l.ActionType,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert meeting_business_line: %w", err)
	}
	return nil
}

func (r *RepoImpl) ListBusinessLines(ctx context.Context, tenantID, meetingID uuid.UUID) ([]entity.BusinessLine, error) {
	rows, err := r.db.Query(ctx, listBusinessLinesQuery, tenantID, meetingID)
	if err != nil {
		return nil, fmt.Errorf("select meeting_business_lines: %w", err)
	}
	defer rows.Close()

	res := make([]entity.BusinessLine, 0)
	for rows.Next() {
		var l entity.BusinessLine
		if err := rows.Scan(&l.ID, &l.TenantID, &l.MeetingID, &l.AssignmentID, &l.MemberName, &l.CallingName, &l.ActionType, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan meeting_business_line: %w", err)
		}
		res = append(res, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("meeting_business_lines rows err: %w", err)
	}
	return res, nil
}
