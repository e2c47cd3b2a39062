package repo

import (
	"context"
	"errors"
	"fmt"
	"wardflow/internal/appers"
	"wardflow/internal/application/entity"
	"wardflow/pkg/db"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
)

// NextSnapshotVersion - max(version)+1. Корректно только под блокировкой строки собрания.
func (r *RepoImpl) NextSnapshotVersion(ctx context.Context, meetingID uuid.UUID) (int, error) {
	var v int
	if err := r.db.QueryRow(ctx, nextSnapshotVersionQuery, meetingID).Scan(&v); err != nil {
		return 0, fmt.Errorf("next snapshot version: %w", err)
	}
	return v, nil
}

func (r *RepoImpl) InsertSnapshot(ctx context.Context, s *entity.PublishSnapshot) error {
	err := r.db.QueryRow(ctx, insertSnapshotQuery, s.TenantID, s.MeetingID, s.Version, s.Content).Scan(&s.ID, &s.CreatedAt)
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err):
		r.logger.Warnf("[meeting: %s] snapshot version %d already exists", s.MeetingID, s.Version)
		return appers.ErrVersionConflict
	default:
		return fmt.Errorf("insert publish_snapshot: %w", err)
	}
}

// LatestPublished без блокировки; nil, nil если собрание ещё не публиковалось
func (r *RepoImpl) LatestPublished(ctx context.Context, tenantID, meetingID uuid.UUID) (*entity.PublishSnapshot, error) {
	s, err := scanSnapshot(r.db.QueryRow(ctx, latestSnapshotQuery, tenantID, meetingID))
	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, nil
	default:
		return nil, fmt.Errorf("select latest publish_snapshot: %w", err)
	}
}

func (r *RepoImpl) GetSnapshot(ctx context.Context, tenantID, meetingID uuid.UUID, version int) (*entity.PublishSnapshot, error) {
	s, err := scanSnapshot(r.db.QueryRow(ctx, getSnapshotQuery, tenantID, meetingID, version))
	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, appers.ErrSnapshotNotFound
	default:
		return nil, fmt.Errorf("select publish_snapshot: %w", err)
	}
}

func (r *RepoImpl) ListSnapshots(ctx context.Context, tenantID, meetingID uuid.UUID) ([]entity.PublishSnapshot, error) {
	rows, err := r.db.Query(ctx, listSnapshotsQuery, tenantID, meetingID)
	if err != nil {
		return nil, fmt.Errorf("select publish_snapshots: %w", err)
	}
	defer rows.Close()

	res := make([]entity.PublishSnapshot, 0)
	for rows.Next() {
		var s entity.PublishSnapshot
		if err := rows.Scan(&s.ID, &s.TenantID, &s.MeetingID, &s.Version, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan publish_snapshot: %w", err)
		}
		res = append(res, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("publish_snapshots rows err: %w", err)
	}
	return res, nil
}

func scanSnapshot(row pgx.Row) (*entity.PublishSnapshot, error) {
	var s entity.PublishSnapshot
	if err := row.Scan(&s.ID, &s.TenantID, &s.MeetingID, &s.Version, &s.Content, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
