package service

import (
	"context"
	"errors"
	"testing"
	"wardflow/internal/appers"
	"wardflow/internal/application/entity"
	"wardflow/internal/application/lifecycle"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTransitionEnqueuesAfterCommit(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	f.tx.entries = []entity.OutboxEntry{{ID: 7, TenantID: tenant, EventType: entity.EventCallingSustained}}

	rec, err := f.svc.SustainCalling(context.Background(), tenant, uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StageSustained, rec.Stage)

	require.Len(t, f.q.jobs, 1)
	assert.Equal(t, entity.DeliveryJob{TenantID: tenant, OutboxEntryID: 7}, f.q.jobs[0])
}

func TestApplyTransitionRejectedEnqueuesNothing(t *testing.T) {
	f := newFixture()
	f.tx.txErr = appers.ErrStaleStage

	_, err := f.svc.SetApartCalling(context.Background(), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()), "after sacrament meeting")
	assert.ErrorIs(t, err, appers.ErrStaleStage)
	assert.Empty(t, f.q.jobs)
}

func TestEnqueueFailureDoesNotFailProducer(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	f.q.err = errors.New("queue is full")
	f.tx.entries = []entity.OutboxEntry{{ID: 1, TenantID: tenant, EventType: entity.EventMeetingCompleted}}

	m, err := f.svc.CompleteMeeting(context.Background(), tenant, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	assert.Equal(t, entity.MeetingStatusCompleted, m.Status)
}

func TestCompleteMeetingEnqueuesEveryEntry(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	f.tx.entries = []entity.OutboxEntry{
		{ID: 1, TenantID: tenant, EventType: entity.EventMeetingCompleted},
		{ID: 2, TenantID: tenant, EventType: entity.EventCallingReleaseAnnounced},
		{ID: 3, TenantID: tenant, EventType: entity.EventCallingReleaseAnnounced},
	}

	_, err := f.svc.CompleteMeeting(context.Background(), tenant, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	assert.Len(t, f.q.jobs, 3)
}

func TestPublishMeetingResult(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	meeting := uuid.Must(uuid.NewV4())

	f.tx.snapshotVersion = 1
	res, err := f.svc.PublishMeeting(context.Background(), tenant, meeting, "Opening hymn 2")
	require.NoError(t, err)
	assert.False(t, res.Republished)
	assert.Equal(t, 1, res.Version)

	f.tx.snapshotVersion = 2
	res, err = f.svc.PublishMeeting(context.Background(), tenant, meeting, "Opening hymn 19")
	require.NoError(t, err)
	assert.True(t, res.Republished)
	assert.Equal(t, int64(90), res.OutboxEntry)
	assert.Len(t, f.q.jobs, 2)
}

func TestListDeliveriesClampsLimit(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())

	_, err := f.svc.ListDeliveries(context.Background(), tenant, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, f.repo.gotLimit)

	_, err = f.svc.ListDeliveries(context.Background(), tenant, 10_000)
	require.NoError(t, err)
	assert.Equal(t, 500, f.repo.gotLimit)

	_, err = f.svc.ListDeliveries(context.Background(), tenant, 20)
	require.NoError(t, err)
	assert.Equal(t, 20, f.repo.gotLimit)
}

func TestSweepOutboxRequeuesBothKinds(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	f.repo.staleProc = []entity.StaleOutboxRef{{TenantID: tenant, ID: 1}}
	f.repo.stalePending = []entity.StaleOutboxRef{{TenantID: tenant, ID: 2}, {TenantID: tenant, ID: 3}}

	f.svc.SweepOutbox(context.Background())

	require.Len(t, f.q.jobs, 3)
	assert.Equal(t, int64(1), f.q.jobs[0].OutboxEntryID)
	assert.Equal(t, int64(3), f.q.jobs[2].OutboxEntryID)
}

func TestRedeliverEnqueues(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	f.tx.redelivered = &entity.OutboxEntry{ID: 44, TenantID: tenant, Revision: 3, Status: entity.OutboxPending}

	e, err := f.svc.Redeliver(context.Background(), tenant, 44)
	require.NoError(t, err)
	assert.Equal(t, 3, e.Revision)
	require.Len(t, f.q.jobs, 1)
	assert.Equal(t, int64(44), f.q.jobs[0].OutboxEntryID)

	f.tx.txErr = appers.ErrNotRedeliverable
	_, err = f.svc.Redeliver(context.Background(), tenant, 44)
	assert.ErrorIs(t, err, appers.ErrNotRedeliverable)
}

func TestHealthCheckWithoutKafka(t *testing.T) {
	f := newFixture()
	st := f.svc.HealthCheck(context.Background())
	assert.True(t, st.DBHealthy)
	assert.False(t, st.KafkaEnabled)

	f.repo.healthErr = errors.New("connection refused")
	st = f.svc.HealthCheck(context.Background())
	assert.False(t, st.DBHealthy)
}
