package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"
	"wardflow/internal/application/entity"
	"wardflow/internal/application/lifecycle"
	"wardflow/internal/application/repo"
	"wardflow/pkg/config"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// fakeRepo переопределяет только то, что трогает сервис; остальное паникует через nil интерфейс
type fakeRepo struct {
	repo.Repo

	healthErr    error
	deliveries   []entity.DeliveryDiagnostic
	gotLimit     int
	staleProc    []entity.StaleOutboxRef
	stalePending []entity.StaleOutboxRef
}

func (r *fakeRepo) HealthCheck(context.Context) error { return r.healthErr }

func (r *fakeRepo) ListDeliveries(_ context.Context, _ uuid.UUID, limit int) ([]entity.DeliveryDiagnostic, error) {
	r.gotLimit = limit
	return r.deliveries, nil
}

func (r *fakeRepo) RequeueStaleProcessing(context.Context, time.Duration) ([]entity.StaleOutboxRef, error) {
	return r.staleProc, nil
}

func (r *fakeRepo) ListStalePending(context.Context, time.Duration, int) ([]entity.StaleOutboxRef, error) {
	return r.stalePending, nil
}

type fakeTx struct {
	repo.Transactions

	claimed   []*entity.OutboxEntry
	record    *entity.DeliveryRecord
	settleErr error
	settledBy *entity.DeliveryRecord // запись уже закрыта другим воркером

	successRef string
	failureMsg string
	reconciled bool
	settled    int

	entries []entity.OutboxEntry
	txErr   error

	snapshotVersion int
	redelivered     *entity.OutboxEntry
}

func (t *fakeTx) ClaimNextPending(context.Context, uuid.UUID) (*entity.OutboxEntry, error) {
	if len(t.claimed) == 0 {
		return nil, nil
	}
	e := t.claimed[0]
	t.claimed = t.claimed[1:]
	return e, nil
}

func (t *fakeTx) EnsureDeliveryRecord(_ context.Context, e *entity.OutboxEntry, channel string) (*entity.DeliveryRecord, error) {
	if t.record != nil {
		return t.record, nil
	}
	return &entity.DeliveryRecord{ID: 1, OutboxEntryID: e.ID, Revision: e.Revision, Channel: channel, Status: entity.DeliveryPending}, nil
}

func (t *fakeTx) MarkDeliverySuccess(_ context.Context, rec *entity.DeliveryRecord, _ *entity.OutboxEntry, ref string) error {
	t.settled++
	t.successRef = ref
	return t.applySettle(rec, entity.DeliverySuccess, "", ref)
}

func (t *fakeTx) MarkDeliveryFailure(_ context.Context, rec *entity.DeliveryRecord, _ *entity.OutboxEntry, msg string) error {
	t.settled++
	t.failureMsg = msg
	return t.applySettle(rec, entity.DeliveryFailure, msg, "")
}

// applySettle повторяет поведение TransactionsImpl.settle: rec получает итоговое состояние записи
func (t *fakeTx) applySettle(rec *entity.DeliveryRecord, status entity.DeliveryStatus, msg, ref string) error {
	if t.settleErr != nil {
		return t.settleErr
	}
	if t.settledBy != nil {
		*rec = *t.settledBy
		return nil
	}
	rec.Status = status
	rec.ErrorMessage = msg
	rec.ExternalRef = ref
	return nil
}

func (t *fakeTx) ReconcileEntry(context.Context, *entity.DeliveryRecord, *entity.OutboxEntry) error {
	t.reconciled = true
	return nil
}

func (t *fakeTx) ApplyTransition(_ context.Context, tenantID, id uuid.UUID, _, to lifecycle.Stage, _ entity.TransitionInput) (*entity.CallingTransition, []entity.OutboxEntry, error) {
	if t.txErr != nil {
		return nil, nil, t.txErr
	}
	return &entity.CallingTransition{ID: 5, AssignmentID: id, TenantID: tenantID, Stage: to}, t.entries, nil
}

func (t *fakeTx) CompleteMeeting(_ context.Context, tenantID, meetingID uuid.UUID) (*entity.Meeting, []entity.OutboxEntry, error) {
	if t.txErr != nil {
		return nil, nil, t.txErr
	}
	return &entity.Meeting{ID: meetingID, TenantID: tenantID, Status: entity.MeetingStatusCompleted}, t.entries, nil
}

func (t *fakeTx) PublishMeeting(_ context.Context, tenantID, meetingID uuid.UUID, content string) (*entity.PublishSnapshot, *entity.OutboxEntry, error) {
	if t.txErr != nil {
		return nil, nil, t.txErr
	}
	entry := entity.OutboxEntry{ID: 90, TenantID: tenantID, SubjectID: meetingID, EventType: entity.MeetingPublished{Version: t.snapshotVersion}.EventType()}
	return &entity.PublishSnapshot{TenantID: tenantID, MeetingID: meetingID, Version: t.snapshotVersion, Content: content}, &entry, nil
}

func (t *fakeTx) Redeliver(context.Context, uuid.UUID, int64) (*entity.OutboxEntry, error) {
	if t.txErr != nil {
		return nil, t.txErr
	}
	return t.redelivered, nil
}

type fakeQueue struct {
	mu   sync.Mutex
	jobs []entity.DeliveryJob
	err  error
}

func (q *fakeQueue) Name() string { return "fake" }

func (q *fakeQueue) Enqueue(_ context.Context, job entity.DeliveryJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type fakeDispatcher struct {
	calls []entity.Notification
	ref   string
	err   error
	block bool
}

func (d *fakeDispatcher) Name() string { return config.ChannelWebhook }

func (d *fakeDispatcher) Dispatch(ctx context.Context, n entity.Notification) (string, error) {
	d.calls = append(d.calls, n)
	if d.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return d.ref, d.err
}

type fixture struct {
	repo *fakeRepo
	tx   *fakeTx
	q    *fakeQueue
	d    *fakeDispatcher
	svc  *ServiceImpl
}

func newFixture() *fixture {
	f := &fixture{repo: &fakeRepo{}, tx: &fakeTx{}, q: &fakeQueue{}, d: &fakeDispatcher{}}
	conf := config.Config{
		Delivery: config.Delivery{Channel: config.ChannelWebhook, DispatchTimeout: time.Second},
		Cron:     config.Cron{ProcessingLease: time.Minute, StaleAfter: time.Minute, BatchSize: 10},
	}
	f.svc = NewService(f.repo, f.tx, f.q, f.d, nil, zap.NewNop().Sugar(), conf, nil)
	return f
}

func sustainedEntry(tenant uuid.UUID) *entity.OutboxEntry {
	assignment := uuid.Must(uuid.NewV4())
	payload, _ := json.Marshal(entity.CallingSustained{CallingAssignmentID: assignment, MeetingID: uuid.Must(uuid.NewV4())})
	return &entity.OutboxEntry{
		ID:          11,
		TenantID:    tenant,
		SubjectType: entity.SubjectCallingAssignment,
		SubjectID:   assignment,
		EventType:   entity.EventCallingSustained,
		Payload:     payload,
		Status:      entity.OutboxProcessing,
		Revision:    2,
		Attempts:    1,
	}
}
