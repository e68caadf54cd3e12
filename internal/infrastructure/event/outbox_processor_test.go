package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orderbridge/backend/internal/domain/integration"
	"github.com/orderbridge/backend/internal/domain/shared"
)

type processorFixture struct {
	repo      *GormOutboxRepository
	bus       *InMemoryEventBus
	handler   *recordingHandler
	processor *OutboxProcessor
}

func newProcessorFixture(t *testing.T) *processorFixture {
	t.Helper()
	repo := NewGormOutboxRepository(setupOutboxDB(t))
	bus := startedBus(t)
	handler := &recordingHandler{eventTypes: []string{integration.EventTypeOrderImported}}
	bus.Subscribe(handler)
	processor := NewOutboxProcessor(repo, bus, NewDefaultSerializer(), OutboxProcessorConfig{BatchSize: 10}, zap.NewNop())
	return &processorFixture{repo: repo, bus: bus, handler: handler, processor: processor}
}

func (f *processorFixture) enqueue(t *testing.T, event shared.DomainEvent) *shared.OutboxEntry {
	t.Helper()
	payload, err := NewDefaultSerializer().Serialize(event)
	require.NoError(t, err)
	entry := shared.NewOutboxEntry(event, payload)
	require.NoError(t, f.repo.Save(context.Background(), entry))
	return entry
}

func TestOutboxProcessor_RelaysPendingEntries(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()
	entry := f.enqueue(t, newOrderImported(t, 1001))

	f.processor.ProcessBatch(ctx)

	require.Equal(t, 1, f.handler.count())
	relayed := f.handler.handled[0].(*integration.OrderImportedEvent)
	assert.Equal(t, int64(1001), relayed.ChannableID)

	stored, err := f.repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusSent, stored.Status)
	assert.NotNil(t, stored.ProcessedAt)

	f.processor.ProcessBatch(ctx)
	assert.Equal(t, 1, f.handler.count(), "sent entries are not relayed again")
}

func TestOutboxProcessor_HandlerFailureSchedulesRetry(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()
	f.handler.err = errors.New("broker down")
	entry := f.enqueue(t, newOrderImported(t, 1002))

	f.processor.ProcessBatch(ctx)

	stored, err := f.repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusFailed, stored.Status)
	assert.Equal(t, 1, stored.RetryCount)
	assert.Contains(t, stored.LastError, "broker down")
	require.NotNil(t, stored.NextRetryAt)
	assert.True(t, stored.NextRetryAt.After(time.Now()))
}

func TestOutboxProcessor_UnknownEventGoesDead(t *testing.T) {
	f := newProcessorFixture(t)
	ctx := context.Background()
	entry := shared.NewOutboxEntry(newTestEvent("Unregistered"), []byte(`{}`))
	entry.MaxRetries = 1
	require.NoError(t, f.repo.Save(ctx, entry))

	f.processor.ProcessBatch(ctx)

	stored, err := f.repo.FindByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsDead())
	assert.Zero(t, f.handler.count())
}

func TestOutboxProcessor_StartStop(t *testing.T) {
	f := newProcessorFixture(t)
	f.processor.config.PollInterval = 10 * time.Millisecond
	f.enqueue(t, newOrderImported(t, 1003))

	require.NoError(t, f.processor.Start(context.Background()))
	assert.Eventually(t, func() bool { return f.handler.count() == 1 }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.processor.Stop(ctx))
}

func TestNewOutboxProcessor_AppliesDefaults(t *testing.T) {
	p := NewOutboxProcessor(nil, nil, nil, OutboxProcessorConfig{}, nil)
	assert.Equal(t, DefaultOutboxProcessorConfig().BatchSize, p.config.BatchSize)
	assert.Equal(t, DefaultOutboxProcessorConfig().PollInterval, p.config.PollInterval)
	assert.False(t, p.config.CleanupEnabled)
}
