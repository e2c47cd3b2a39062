package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
	"wardflow/internal/application/entity"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliverNextIdleWhenNothingClaimable(t *testing.T) {
	f := newFixture()

	out, err := f.svc.DeliverNext(context.Background(), uuid.Must(uuid.NewV4()))
	require.NoError(t, err)
	assert.Equal(t, entity.ResultIdle, out.Result)
	assert.Empty(t, f.d.calls)
	assert.Zero(t, f.tx.settled)
}

func TestDeliverNextSuccess(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	entry := sustainedEntry(tenant)
	f.tx.claimed = []*entity.OutboxEntry{entry}
	f.d.ref = "req-1"

	out, err := f.svc.DeliverNext(context.Background(), tenant)
	require.NoError(t, err)

	assert.Equal(t, entity.ResultDelivered, out.Result)
	assert.Equal(t, entity.DeliverySuccess, out.Record.Status)
	assert.Equal(t, "req-1", f.tx.successRef)
	require.Len(t, f.d.calls, 1)
	assert.Equal(t, "11:2", f.d.calls[0].IdempotencyKey)
	assert.Equal(t, 1, f.tx.settled)
}

func TestDeliverNextFailureIsRecordedNotReturned(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	f.tx.claimed = []*entity.OutboxEntry{sustainedEntry(tenant)}
	f.d.err = errors.New("webhook responded 503")

	out, err := f.svc.DeliverNext(context.Background(), tenant)
	require.NoError(t, err)

	assert.Equal(t, entity.ResultFailed, out.Result)
	assert.Equal(t, "webhook responded 503", f.tx.failureMsg)
	assert.Equal(t, entity.DeliveryFailure, out.Record.Status)
}

func TestDeliverNextSwallowsMarkFailedError(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	f.tx.claimed = []*entity.OutboxEntry{sustainedEntry(tenant)}
	f.d.err = errors.New("boom")
	f.tx.settleErr = errors.New("db is down")

	out, err := f.svc.DeliverNext(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, entity.ResultFailed, out.Result)
}

func TestDeliverNextTimeoutIsFailure(t *testing.T) {
	f := newFixture()
	f.svc.delivery.DispatchTimeout = 20 * time.Millisecond
	tenant := uuid.Must(uuid.NewV4())
	f.tx.claimed = []*entity.OutboxEntry{sustainedEntry(tenant)}
	f.d.block = true

	out, err := f.svc.DeliverNext(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, entity.ResultFailed, out.Result)
	assert.Contains(t, f.tx.failureMsg, "timed out")
}

func TestDeliverNextCancelledWorkerLeavesEntryUnsettled(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	f.tx.claimed = []*entity.OutboxEntry{sustainedEntry(tenant)}
	f.d.block = true

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	out, err := f.svc.DeliverNext(ctx, tenant)
	require.NoError(t, err)

	assert.Equal(t, entity.ResultAborted, out.Result)
	assert.Equal(t, entity.DeliveryPending, out.Record.Status)
	assert.Zero(t, f.tx.settled)
	assert.Empty(t, f.tx.failureMsg)
	assert.Len(t, f.d.calls, 1)
}

func TestDeliverNextFailureAfterConcurrentSuccessIsReconciled(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	f.tx.claimed = []*entity.OutboxEntry{sustainedEntry(tenant)}
	f.d.err = errors.New("webhook responded 503")
	f.tx.settledBy = &entity.DeliveryRecord{ID: 1, Status: entity.DeliverySuccess, ExternalRef: "req-other"}

	out, err := f.svc.DeliverNext(context.Background(), tenant)
	require.NoError(t, err)

	assert.Equal(t, entity.ResultReconciled, out.Result)
	assert.Equal(t, entity.DeliverySuccess, out.Record.Status)
	assert.Empty(t, out.ErrorMsg)
}

func TestDeliverNextReconcilesTerminalRecord(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	f.tx.claimed = []*entity.OutboxEntry{sustainedEntry(tenant)}
	f.tx.record = &entity.DeliveryRecord{ID: 4, Status: entity.DeliverySuccess}

	out, err := f.svc.DeliverNext(context.Background(), tenant)
	require.NoError(t, err)

	assert.Equal(t, entity.ResultReconciled, out.Result)
	assert.True(t, f.tx.reconciled)
	assert.Empty(t, f.d.calls)
	assert.Zero(t, f.tx.settled)
}

func TestDeliverNextUndecodablePayloadFails(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	entry := sustainedEntry(tenant)
	entry.Payload = json.RawMessage(`{"callingAssignmentId":"not-a-uuid"}`)
	f.tx.claimed = []*entity.OutboxEntry{entry}

	out, err := f.svc.DeliverNext(context.Background(), tenant)
	require.NoError(t, err)
	assert.Equal(t, entity.ResultFailed, out.Result)
	assert.Empty(t, f.d.calls)
}

func TestHandleDeliveryJobUsesTenantClaim(t *testing.T) {
	f := newFixture()
	tenant := uuid.Must(uuid.NewV4())
	f.tx.claimed = []*entity.OutboxEntry{sustainedEntry(tenant)}

	require.NoError(t, f.svc.HandleDeliveryJob(context.Background(), entity.DeliveryJob{TenantID: tenant, OutboxEntryID: 999}))
	assert.Len(t, f.d.calls, 1)
}
