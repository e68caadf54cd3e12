package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderbridge/backend/internal/domain/shared"
)

func saveEntry(t *testing.T, repo *GormOutboxRepository, mutate func(*shared.OutboxEntry)) *shared.OutboxEntry {
	t.Helper()
	entry := shared.NewOutboxEntry(newTestEvent("A"), []byte(`{}`))
	if mutate != nil {
		mutate(entry)
	}
	require.NoError(t, repo.Save(context.Background(), entry))
	return entry
}

func TestGormOutboxRepository_SaveAndFindPending(t *testing.T) {
	repo := NewGormOutboxRepository(setupOutboxDB(t))
	ctx := context.Background()

	first := saveEntry(t, repo, func(e *shared.OutboxEntry) { e.CreatedAt = time.Now().Add(-time.Minute) })
	second := saveEntry(t, repo, nil)
	saveEntry(t, repo, func(e *shared.OutboxEntry) { e.Status = shared.OutboxStatusSent })

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)

	limited, err := repo.FindPending(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	require.NoError(t, repo.Save(ctx))
}

func TestGormOutboxRepository_FindRetryable(t *testing.T) {
	repo := NewGormOutboxRepository(setupOutboxDB(t))
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	due := saveEntry(t, repo, func(e *shared.OutboxEntry) {
		e.Status = shared.OutboxStatusFailed
		e.NextRetryAt = &past
	})
	saveEntry(t, repo, func(e *shared.OutboxEntry) {
		e.Status = shared.OutboxStatusFailed
		e.NextRetryAt = &future
	})

	retryable, err := repo.FindRetryable(context.Background(), time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, retryable, 1)
	assert.Equal(t, due.ID, retryable[0].ID)
}

func TestGormOutboxRepository_MarkProcessing(t *testing.T) {
	db := setupOutboxDB(t)
	repo := NewGormOutboxRepository(db)
	ctx := context.Background()

	pending := saveEntry(t, repo, nil)
	sent := saveEntry(t, repo, func(e *shared.OutboxEntry) { e.Status = shared.OutboxStatusSent })

	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{pending.ID, sent.ID})
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, shared.OutboxStatusProcessing, claimed[0].Status)

	stored, err := repo.FindByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.OutboxStatusProcessing, stored.Status)

	again, err := repo.MarkProcessing(ctx, []uuid.UUID{pending.ID})
	require.NoError(t, err)
	assert.Empty(t, again, "an entry is claimed once")

	none, err := repo.MarkProcessing(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestGormOutboxRepository_UpdateAndCount(t *testing.T) {
	repo := NewGormOutboxRepository(setupOutboxDB(t))
	ctx := context.Background()

	entry := saveEntry(t, repo, nil)
	saveEntry(t, repo, nil)
	entry.MarkSent()
	require.NoError(t, repo.Update(ctx, entry))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusPending])
	assert.Equal(t, int64(1), counts[shared.OutboxStatusSent])
}

func TestGormOutboxRepository_DeleteOlderThan(t *testing.T) {
	repo := NewGormOutboxRepository(setupOutboxDB(t))
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	saveEntry(t, repo, func(e *shared.OutboxEntry) {
		e.Status = shared.OutboxStatusSent
		e.ProcessedAt = &old
	})
	saveEntry(t, repo, func(e *shared.OutboxEntry) { e.Status = shared.OutboxStatusSent })
	saveEntry(t, repo, nil)

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestGormOutboxRepository_FindDeadAndByID(t *testing.T) {
	repo := NewGormOutboxRepository(setupOutboxDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		saveEntry(t, repo, func(e *shared.OutboxEntry) { e.Status = shared.OutboxStatusDead })
	}
	saveEntry(t, repo, nil)

	page, total, err := repo.FindDead(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	last, _, err := repo.FindDead(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, last, 1)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrOutboxEntryNotFound)
}
