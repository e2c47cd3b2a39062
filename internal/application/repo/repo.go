package repo

import (
	"context"
	"fmt"
	"time"
	"wardflow/internal/application/entity"
	"wardflow/internal/application/lifecycle"
	"wardflow/pkg/db"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type Repo interface {
	CreateAssignment(ctx context.Context, a *entity.CallingAssignment) error
	GetAssignment(ctx context.Context, tenantID, id uuid.UUID) (*entity.CallingAssignment, error)
	LockAssignment(ctx context.Context, tenantID, id uuid.UUID) (*entity.CallingAssignment, error)
	CurrentStage(ctx context.Context, tenantID, id uuid.UUID) (lifecycle.Stage, error)
	AppendTransition(ctx context.Context, tenantID, id uuid.UUID, from, to lifecycle.Stage, in entity.TransitionInput) (entity.TransitionOutcome, error)
	InsertTransition(ctx context.Context, t *entity.CallingTransition) error
	ListTransitions(ctx context.Context, tenantID, id uuid.UUID) ([]entity.CallingTransition, error)

	CreateMeeting(ctx context.Context, m *entity.Meeting) error
	GetMeeting(ctx context.Context, tenantID, id uuid.UUID) (*entity.Meeting, error)
	LockMeeting(ctx context.Context, tenantID, id uuid.UUID) (*entity.Meeting, error)
	MarkMeetingCompleted(ctx context.Context, m *entity.Meeting) error
	AddBusinessLine(ctx context.Context, l *entity.BusinessLine) error
	ListBusinessLines(ctx context.Context, tenantID, meetingID uuid.UUID) ([]entity.BusinessLine, error)

	UpsertOutbox(ctx context.Context, e *entity.OutboxEntry) error
	ClaimNextPending(ctx context.Context, tenantID uuid.UUID) (*entity.OutboxEntry, error)
	MarkProcessed(ctx context.Context, id int64, revision int) (bool, error)
	MarkFailed(ctx context.Context, id int64, revision int, msg string) (bool, error)
	GetOutboxEntry(ctx context.Context, tenantID uuid.UUID, id int64) (*entity.OutboxEntry, error)
	RequeueStaleProcessing(ctx context.Context, lease time.Duration) ([]entity.StaleOutboxRef, error)
	ListStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]entity.StaleOutboxRef, error)
	ResetForRedelivery(ctx context.Context, tenantID uuid.UUID, id int64) (*entity.OutboxEntry, error)

	EnsureDeliveryRecord(ctx context.Context, e *entity.OutboxEntry, channel string) (*entity.DeliveryRecord, error)
	SettleDeliveryRecord(ctx context.Context, recordID int64, status entity.DeliveryStatus, errMsg, externalRef string) (bool, error)
	ListDeliveries(ctx context.Context, tenantID uuid.UUID, limit int) ([]entity.DeliveryDiagnostic, error)

	NextSnapshotVersion(ctx context.Context, meetingID uuid.UUID) (int, error)
	InsertSnapshot(ctx context.Context, s *entity.PublishSnapshot) error
	LatestPublished(ctx context.Context, tenantID, meetingID uuid.UUID) (*entity.PublishSnapshot, error)
	GetSnapshot(ctx context.Context, tenantID, meetingID uuid.UUID, version int) (*entity.PublishSnapshot, error)
	ListSnapshots(ctx context.Context, tenantID, meetingID uuid.UUID) ([]entity.PublishSnapshot, error)

	HealthCheck(ctx context.Context) error
}
type RepoImpl struct {
	db     db.DB
	logger *zap.SugaredLogger
}

func NewRepo(db db.DB, logger *zap.SugaredLogger) *RepoImpl {
	return &RepoImpl{db: db, logger: logger}
}

func (r *RepoImpl) HealthCheck(ctx context.Context) error {
	// Проверяем доступность БД через простой запрос
	var result int
	err := r.db.QueryRow(ctx, "SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
