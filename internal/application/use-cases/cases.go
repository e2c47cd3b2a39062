package use_cases

import (
	"context"
	"time"
	"wardflow/internal/application/entity"
	"wardflow/internal/application/lifecycle"
	"wardflow/internal/application/service"
	"wardflow/internal/transport/queue"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

type UseCaser interface {
	CreateAssignment(ctx context.Context, tenantID uuid.UUID, memberName, positionName string) (*entity.CallingAssignment, error)
	GetAssignment(ctx context.Context, tenantID, id uuid.UUID) (*entity.CallingAssignmentDetails, error)
	ApplyTransition(ctx context.Context, tenantID, id uuid.UUID, from, to lifecycle.Stage, in entity.TransitionInput) (*entity.CallingTransition, error)
	SustainCalling(ctx context.Context, tenantID, id, meetingID uuid.UUID) (*entity.CallingTransition, error)
	SetApartCalling(ctx context.Context, tenantID, id uuid.UUID, instruction string) (*entity.CallingTransition, error)
	ScheduleRelease(ctx context.Context, tenantID, id, meetingID uuid.UUID) (*entity.BusinessLine, error)

	CreateMeeting(ctx context.Context, tenantID uuid.UUID, title string, date time.Time) (*entity.Meeting, error)
	CompleteMeeting(ctx context.Context, tenantID, meetingID uuid.UUID) (*entity.Meeting, error)
	PublishMeeting(ctx context.Context, tenantID, meetingID uuid.UUID, content string) (*entity.PublishResult, error)
	LatestPublished(ctx context.Context, tenantID, meetingID uuid.UUID) (*entity.PublishSnapshot, error)
	GetSnapshot(ctx context.Context, tenantID, meetingID uuid.UUID, version int) (*entity.PublishSnapshot, error)
	ListSnapshots(ctx context.Context, tenantID, meetingID uuid.UUID) ([]entity.PublishSnapshot, error)

	ListDeliveries(ctx context.Context, tenantID uuid.UUID, limit int) ([]entity.DeliveryDiagnostic, error)
	Redeliver(ctx context.Context, tenantID uuid.UUID, outboxID int64) (*entity.OutboxEntry, error)
	HandleDeliveryJob(ctx context.Context, job entity.DeliveryJob) error
	ConsumeDeliveryJob(ctx context.Context, msg []byte) error
	SweepOutbox(ctx context.Context)

	HealthCheck(ctx context.Context) entity.HealthStatus
}
type UseCase struct {
	service service.Service
	logger  *zap.SugaredLogger
}

func NewUseCase(service service.Service, logger *zap.SugaredLogger) *UseCase {
	return &UseCase{
		service: service,
		logger:  logger,
	}
}

func (u *UseCase) HealthCheck(ctx context.Context) entity.HealthStatus {
	return u.service.HealthCheck(ctx)
}

func (u *UseCase) CreateAssignment(ctx context.Context, tenantID uuid.UUID, memberName, positionName string) (*entity.CallingAssignment, error) {
	u.logger.Debugf("[tenant: %s] CreateAssignment started", tenantID)
	return u.service.CreateAssignment(ctx, tenantID, memberName, positionName)
}

func (u *UseCase) GetAssignment(ctx context.Context, tenantID, id uuid.UUID) (*entity.CallingAssignmentDetails, error) {
	return u.service.GetAssignment(ctx, tenantID, id)
}

func (u *UseCase) ApplyTransition(ctx context.Context, tenantID, id uuid.UUID, from, to lifecycle.Stage, in entity.TransitionInput) (*entity.CallingTransition, error) {
	u.logger.Debugf("[assignment: %s] ApplyTransition %s -> %s", id, from, to)
	return u.service.ApplyTransition(ctx, tenantID, id, from, to, in)
}

func (u *UseCase) SustainCalling(ctx context.Context, tenantID, id, meetingID uuid.UUID) (*entity.CallingTransition, error) {
	u.logger.Debugf("[assignment: %s] SustainCalling in meeting %s", id, meetingID)
	return u.service.SustainCalling(ctx, tenantID, id, meetingID)
}

func (u *UseCase) SetApartCalling(ctx context.Context, tenantID, id uuid.UUID, instruction string) (*entity.CallingTransition, error) {
	u.logger.Debugf("[assignment: %s] SetApartCalling", id)
	return u.service.SetApartCalling(ctx, tenantID, id, instruction)
}

func (u *UseCase) ScheduleRelease(ctx context.Context, tenantID, id, meetingID uuid.UUID) (*entity.BusinessLine, error) {
	return u.service.ScheduleRelease(ctx, tenantID, id, meetingID)
}

func (u *UseCase) CreateMeeting(ctx context.Context, tenantID uuid.UUID, title string, date time.Time) (*entity.Meeting, error) {
	u.logger.Debugf("[tenant: %s] CreateMeeting %q at %s", tenantID, title, date)
	return u.service.CreateMeeting(ctx, tenantID, title, date)
}

func (u *UseCase) CompleteMeeting(ctx context.Context, tenantID, meetingID uuid.UUID) (*entity.Meeting, error) {
	return u.service.CompleteMeeting(ctx, tenantID, meetingID)
}

func (u *UseCase) PublishMeeting(ctx context.Context, tenantID, meetingID uuid.UUID, content string) (*entity.PublishResult, error) {
	return u.service.PublishMeeting(ctx, tenantID, meetingID, content)
}

func (u *UseCase) LatestPublished(ctx context.Context, tenantID, meetingID uuid.UUID) (*entity.PublishSnapshot, error) {
	return u.service.LatestPublished(ctx, tenantID, meetingID)
}

func (u *UseCase) GetSnapshot(ctx context.Context, tenantID, meetingID uuid.UUID, version int) (*entity.PublishSnapshot, error) {
	return u.service.GetSnapshot(ctx, tenantID, meetingID, version)
}

func (u *UseCase) ListSnapshots(ctx context.Context, tenantID, meetingID uuid.UUID) ([]entity.PublishSnapshot, error) {
	return u.service.ListSnapshots(ctx, tenantID, meetingID)
}

func (u *UseCase) ListDeliveries(ctx context.Context, tenantID uuid.UUID, limit int) ([]entity.DeliveryDiagnostic, error) {
	return u.service.ListDeliveries(ctx, tenantID, limit)
}

func (u *UseCase) Redeliver(ctx context.Context, tenantID uuid.UUID, outboxID int64) (*entity.OutboxEntry, error) {
	u.logger.Infof("[ID %d] manual redelivery requested", outboxID)
	return u.service.Redeliver(ctx, tenantID, outboxID)
}

func (u *UseCase) HandleDeliveryJob(ctx context.Context, job entity.DeliveryJob) error {
	return u.service.HandleDeliveryJob(ctx, job)
}

// ConsumeDeliveryJob - задача доставки из kafka. Битое сообщение логируется и пропускается.
func (u *UseCase) ConsumeDeliveryJob(ctx context.Context, msg []byte) error {
	job, err := queue.DecodeJob(msg)
	if err != nil {
		u.logger.Errorf("skip malformed delivery job %q: %v", msg, err)
		return nil
	}
	return u.service.HandleDeliveryJob(ctx, job)
}

func (u *UseCase) SweepOutbox(ctx context.Context) {
	u.logger.Debug("outbox sweep triggered")
	u.service.SweepOutbox(ctx)
}
