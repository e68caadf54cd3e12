package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/orderbridge/backend/internal/domain/shared"
)

type mockOutboxRepository struct {
	mock.Mock
}

func (m *mockOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *mockOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *mockOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *mockOutboxRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Get(1).(int64), args.Error(2)
}

func (m *mockOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.OutboxEntry), args.Error(1)
}

func (m *mockOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *mockOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[shared.OutboxStatus]int64), args.Error(1)
}

var _ shared.OutboxRepository = (*mockOutboxRepository)(nil)

func deadEntry() *shared.OutboxEntry {
	return &shared.OutboxEntry{
		ID:         uuid.New(),
		EventID:    uuid.New(),
		EventType:  "OrderImported",
		Status:     shared.OutboxStatusDead,
		RetryCount: shared.DefaultMaxRetries,
		MaxRetries: shared.DefaultMaxRetries,
		LastError:  "broker down",
	}
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %v", err)
	assert.Equal(t, code, domainErr.Code)
}

func TestOutboxService_GetStats(t *testing.T) {
	repo := new(mockOutboxRepository)
	repo.On("CountByStatus", mock.Anything).Return(map[shared.OutboxStatus]int64{
		shared.OutboxStatusPending: 2,
		shared.OutboxStatusSent:    10,
		shared.OutboxStatusDead:    1,
	}, nil)
	svc := NewOutboxService(repo, nil)

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Dead)
	assert.Equal(t, int64(13), stats.Total)
}

func TestOutboxService_GetStats_Error(t *testing.T) {
	repo := new(mockOutboxRepository)
	repo.On("CountByStatus", mock.Anything).Return(nil, errors.New("db down"))

	_, err := NewOutboxService(repo, nil).GetStats(context.Background())
	assertDomainCode(t, err, "INTERNAL_ERROR")
}

func TestOutboxService_GetDeadLetters_ClampsPaging(t *testing.T) {
	repo := new(mockOutboxRepository)
	repo.On("FindDead", mock.Anything, 1, 100).Return([]*shared.OutboxEntry{deadEntry()}, int64(1), nil)
	repo.On("FindDead", mock.Anything, 3, 20).Return([]*shared.OutboxEntry{}, int64(1), nil)
	svc := NewOutboxService(repo, nil)

	page, err := svc.GetDeadLetters(context.Background(), DeadLetterFilter{Page: 0, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.PageSize)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "broker down", page.Entries[0].LastError)

	page, err = svc.GetDeadLetters(context.Background(), DeadLetterFilter{Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 20, page.PageSize)
	assert.Empty(t, page.Entries)
}

func TestOutboxService_RetryDeadLetter(t *testing.T) {
	entry := deadEntry()
	repo := new(mockOutboxRepository)
	repo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)
	repo.On("Update", mock.Anything, entry).Return(nil)

	dto, err := NewOutboxService(repo, nil).RetryDeadLetter(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, string(shared.OutboxStatusPending), dto.Status)
	assert.Zero(t, dto.RetryCount)
	repo.AssertExpectations(t)
}

func TestOutboxService_RetryDeadLetter_Errors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo := new(mockOutboxRepository)
		repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrOutboxEntryNotFound)

		_, err := NewOutboxService(repo, nil).RetryDeadLetter(context.Background(), uuid.New())
		assertDomainCode(t, err, "ENTRY_NOT_FOUND")
	})

	t.Run("not dead", func(t *testing.T) {
		entry := deadEntry()
		entry.Status = shared.OutboxStatusSent
		repo := new(mockOutboxRepository)
		repo.On("FindByID", mock.Anything, entry.ID).Return(entry, nil)

		_, err := NewOutboxService(repo, nil).RetryDeadLetter(context.Background(), entry.ID)
		assertDomainCode(t, err, "INVALID_STATUS")
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(mockOutboxRepository)
		repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		_, err := NewOutboxService(repo, nil).RetryDeadLetter(context.Background(), uuid.New())
		assertDomainCode(t, err, "INTERNAL_ERROR")
	})
}

func TestOutboxService_RetryAllDeadLetters(t *testing.T) {
	first, second := deadEntry(), deadEntry()
	repo := new(mockOutboxRepository)
	repo.On("FindDead", mock.Anything, 1, 100).Return([]*shared.OutboxEntry{first, second}, int64(2), nil).Once()
	repo.On("Update", mock.Anything, first).Return(nil)
	repo.On("Update", mock.Anything, second).Return(errors.New("write failed"))

	queued, err := NewOutboxService(repo, nil).RetryAllDeadLetters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), queued)
	repo.AssertExpectations(t)
}
