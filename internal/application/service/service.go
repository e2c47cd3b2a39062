package service

import (
	"context"
	"time"
	"wardflow/internal/application/entity"
	"wardflow/internal/application/lifecycle"
	"wardflow/internal/application/repo"
	"wardflow/internal/transport/dispatch"
	"wardflow/internal/transport/producer"
	"wardflow/internal/transport/queue"
	"wardflow/pkg/config"
	"wardflow/pkg/metrics"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const (
	defaultDeliveriesLimit = 50
	maxDeliveriesLimit     = 500
	maxErrorLen            = 2000
)

type Service interface {
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
	DeliverNext(ctx context.Context, tenantID uuid.UUID) (entity.DeliveryOutcome, error)
	HandleDeliveryJob(ctx context.Context, job entity.DeliveryJob) error
	SweepOutbox(ctx context.Context)

	HealthCheck(ctx context.Context) entity.HealthStatus
}

type ServiceImpl struct {
	repo         repo.Repo
	transactions repo.Transactions
	queue        queue.Queue
	dispatcher   dispatch.Dispatcher
	kafka        producer.Producer // nil, если kafka не настроена
	logger       *zap.SugaredLogger
	delivery     config.Delivery
	cron         config.Cron
	m            *metrics.Metrics
}

func NewService(
	repo repo.Repo,
	transactions repo.Transactions,
	q queue.Queue,
	dispatcher dispatch.Dispatcher,
	kafka producer.Producer,
	logger *zap.SugaredLogger,
	conf config.Config,
	m *metrics.Metrics,
) *ServiceImpl {
	return &ServiceImpl{
		repo:         repo,
		transactions: transactions,
		queue:        q,
		dispatcher:   dispatcher,
		kafka:        kafka,
		logger:       logger,
		delivery:     conf.Delivery,
		cron:         conf.Cron,
		m:            m,
	}
}

// HealthCheck проверяет доступность БД и, если она используется, Kafka
func (s *ServiceImpl) HealthCheck(ctx context.Context) entity.HealthStatus {
	var st entity.HealthStatus

	st.DBError = s.repo.HealthCheck(ctx)
	st.DBHealthy = st.DBError == nil

	if s.kafka != nil {
		st.KafkaEnabled = true
		st.KafkaError = s.kafka.HealthCheck(ctx)
		st.KafkaHealthy = st.KafkaError == nil
	}
	return st
}

// enqueue ставит задачи доставки после коммита. Ошибка не возвращается вызывающему:
// факт уже закоммичен, потерянную задачу подберёт sweeper.
func (s *ServiceImpl) enqueue(ctx context.Context, entries []entity.OutboxEntry) {
	ctx = context.WithoutCancel(ctx)
	for _, e := range entries {
		if s.m != nil {
			s.m.Delivery.OutboxUpsertsTotal.WithLabelValues(string(e.EventType)).Inc()
		}
		s.enqueueJob(ctx, entity.DeliveryJob{TenantID: e.TenantID, OutboxEntryID: e.ID})
	}
}

func (s *ServiceImpl) enqueueJob(ctx context.Context, job entity.DeliveryJob) {
	result := "ok"
	if err := s.queue.Enqueue(ctx, job); err != nil {
		result = "error"
		s.logger.Warnf("[ID %d] enqueue delivery job failed, sweeper will retry: %v", job.OutboxEntryID, err)
	}
	if s.m != nil {
		s.m.Delivery.JobsEnqueuedTotal.WithLabelValues(s.queue.Name(), result).Inc()
	}
}

func (s *ServiceImpl) ListDeliveries(ctx context.Context, tenantID uuid.UUID, limit int) ([]entity.DeliveryDiagnostic, error) {
	if limit <= 0 {
		limit = defaultDeliveriesLimit
	}
	if limit > maxDeliveriesLimit {
		limit = maxDeliveriesLimit
	}
	return s.repo.ListDeliveries(ctx, tenantID, limit)
}

// Redeliver - ручной повтор: новая ревизия получает свою запись доставки
func (s *ServiceImpl) Redeliver(ctx context.Context, tenantID uuid.UUID, outboxID int64) (*entity.OutboxEntry, error) {
	s.logger.Debugf("[ID %d] Redeliver started", outboxID)

	entry, err := s.transactions.Redeliver(ctx, tenantID, outboxID)
	if err != nil {
		return nil, err
	}
	s.enqueueJob(context.WithoutCancel(ctx), entity.DeliveryJob{TenantID: entry.TenantID, OutboxEntryID: entry.ID})
	return entry, nil
}
