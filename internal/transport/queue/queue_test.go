package queue

import (
	"context"
	"sync"
	"testing"
	"time"
	"wardflow/internal/application/entity"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingProducer struct {
	topic, key string
	body       []byte
	err        error
}

func (p *recordingProducer) ProduceMessage(_ context.Context, topic, key string, message []byte, _ map[string]string) (int32, int64, error) {
	p.topic, p.key, p.body = topic, key, message
	return 0, 1, p.err
}

func (p *recordingProducer) HealthCheck(context.Context) error { return nil }

func TestLocalQueueRunsJobsOnWorkers(t *testing.T) {
	q := NewLocalQueue(3, 10, zap.NewNop().Sugar(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	seen := map[int64]bool{}
	done := make(chan struct{})
	go func() {
		q.Run(ctx, func(_ context.Context, job entity.DeliveryJob) error {
			mu.Lock()
			seen[job.OutboxEntryID] = true
			mu.Unlock()
			return nil
		})
		close(done)
	}()

	tenant := uuid.Must(uuid.NewV4())
	for i := int64(1); i <= 5; i++ {
		require.NoError(t, q.Enqueue(context.Background(), entity.DeliveryJob{TenantID: tenant, OutboxEntryID: i}))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 5
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestLocalQueueFullBufferDoesNotBlock(t *testing.T) {
	q := NewLocalQueue(1, 1, zap.NewNop().Sugar(), nil)
	job := entity.DeliveryJob{TenantID: uuid.Must(uuid.NewV4()), OutboxEntryID: 1}

	require.NoError(t, q.Enqueue(context.Background(), job))
	assert.ErrorIs(t, q.Enqueue(context.Background(), job), ErrQueueFull)
}

func TestKafkaQueueKeysByTenant(t *testing.T) {
	p := &recordingProducer{}
	q := NewKafkaQueue(p, "wardflow.delivery-jobs")
	job := entity.DeliveryJob{TenantID: uuid.Must(uuid.NewV4()), OutboxEntryID: 17}

	require.NoError(t, q.Enqueue(context.Background(), job))
	assert.Equal(t, "wardflow.delivery-jobs", p.topic)
	assert.Equal(t, job.TenantID.String(), p.key)

	decoded, err := DecodeJob(p.body)
	require.NoError(t, err)
	assert.Equal(t, job, decoded)
}

func TestDecodeJobRejectsIncomplete(t *testing.T) {
	_, err := DecodeJob([]byte(`{"outboxEntryId": 3}`))
	assert.Error(t, err)
	_, err = DecodeJob([]byte(`not json`))
	assert.Error(t, err)
}
