package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dental-api/internal/model"
	"github.com/jwalitptl/dental-api/internal/repository"
	"github.com/jwalitptl/dental-api/pkg/logger"
	"github.com/jwalitptl/dental-api/pkg/metrics"
)

type fakeBatch struct {
	events     []*model.OutboxEvent
	processed  []uuid.UUID
	failed     map[uuid.UUID]bool
	committed  bool
	rolledBack bool
}

func (b *fakeBatch) Events() []*model.OutboxEvent { return b.events }

func (b *fakeBatch) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	b.processed = append(b.processed, id)
	return nil
}

func (b *fakeBatch) MarkFailed(ctx context.Context, id uuid.UUID, reason string, final bool) error {
	b.failed[id] = final
	return nil
}

func (b *fakeBatch) Commit() error   { b.committed = true; return nil }
func (b *fakeBatch) Rollback() error { b.rolledBack = true; return nil }

type fakeOutboxRepo struct {
	batch   *fakeBatch
	deleted time.Time
}

func (r *fakeOutboxRepo) LockPending(ctx context.Context, limit int) (repository.OutboxBatch, error) {
	return r.batch, nil
}

func (r *fakeOutboxRepo) PendingCount(ctx context.Context) (int, error) { return 0, nil }

func (r *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	r.deleted = before
	return 3, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	failFor   map[string]int
	published map[string]int
	calls     int
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.failFor[string(payload)] > 0 {
		p.failFor[string(payload)]--
		return errors.New("broker unavailable")
	}
	p.published[channel]++
	return nil
}

func newEvent(payload string, retries int) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:         uuid.New(),
		EventType:  model.EventBookingCreated,
		Payload:    []byte(payload),
		Status:     model.OutboxStatusPending,
		RetryCount: retries,
	}
}

func testConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
		MaxDeliveries: 3,
	}
}

func TestProcessBatch(t *testing.T) {
	ok := newEvent(`"ok"`, 0)
	flaky := newEvent(`"flaky"`, 0)
	down := newEvent(`"down"`, 0)
	exhausted := newEvent(`"exhausted"`, 2)

	batch := &fakeBatch{events: []*model.OutboxEvent{ok, flaky, down, exhausted}, failed: map[uuid.UUID]bool{}}
	pub := &fakePublisher{
		failFor:   map[string]int{`"flaky"`: 1, `"down"`: 10, `"exhausted"`: 10},
		published: map[string]int{},
	}

	p, err := NewOutboxProcessor(&fakeOutboxRepo{batch: batch}, pub, testConfig(), logger.Nop(), metrics.NewNop())
	require.NoError(t, err)

	n, err := p.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []uuid.UUID{ok.ID, flaky.ID}, batch.processed)
	assert.Equal(t, map[uuid.UUID]bool{down.ID: false, exhausted.ID: true}, batch.failed)
	assert.True(t, batch.committed)
	assert.Equal(t, 2, pub.published[model.EventBookingCreated])
}

func TestNewOutboxProcessorValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BatchSize = 0
	_, err := NewOutboxProcessor(&fakeOutboxRepo{}, &fakePublisher{}, cfg, logger.Nop(), metrics.NewNop())
	assert.Error(t, err)
}

func TestCleanupUsesRetention(t *testing.T) {
	repo := &fakeOutboxRepo{}
	w := NewOutboxCleanupWorker(repo, 24*time.Hour, time.Hour, logger.Nop())

	w.Cleanup(context.Background())
	assert.WithinDuration(t, time.Now().Add(-24*time.Hour), repo.deleted, 5*time.Second)
}
