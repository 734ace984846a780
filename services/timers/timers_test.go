package timers

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"remindbot/db"
	"remindbot/models"
	"remindbot/services"
	"remindbot/services/txmanager"
	"remindbot/testutils"
)

const testOwner = "guild-123"

var (
	_ services.TimersService = (*TimersService)(nil)
	_ services.TimersService = (*MockTimersService)(nil)
)

var testNow = time.Date(2024, time.January, 15, 14, 5, 30, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func TestTimersService_StartTimer(t *testing.T) {
	ctx := context.Background()

	t.Run("default name", func(t *testing.T) {
		repo := &db.MockTimersRepository{}
		txManager := &txmanager.MockTransactionManager{}
		txManager.On("WithTransaction", ctx, mock.Anything).Return(nil).Once()
		repo.On("LockTimersOwner", ctx, testOwner).Return(nil).Once()
		repo.On("CountTimersByOwner", ctx, testOwner).Return(0, nil).Once()
		repo.On("CreateTimer", ctx, mock.MatchedBy(func(timer *models.Timer) bool {
			return timer.Name == DefaultTimerName && timer.Owner == testOwner && timer.StartTime.Equal(testNow)
		})).Return(nil).Once()

		timer, err := NewTimersService(repo, txManager, fixedNow).StartTimer(ctx, testOwner, "  ")
		require.NoError(t, err)
		assert.Equal(t, DefaultTimerName, timer.Name)
		repo.AssertExpectations(t)
		txManager.AssertExpectations(t)
	})

	t.Run("limit reached", func(t *testing.T) {
		repo := &db.MockTimersRepository{}
		txManager := &txmanager.MockTransactionManager{}
		txManager.On("WithTransaction", ctx, mock.Anything).Return(nil).Once()
		repo.On("LockTimersOwner", ctx, testOwner).Return(nil).Once()
		repo.On("CountTimersByOwner", ctx, testOwner).Return(MaxTimersPerOwner, nil).Once()

		_, err := NewTimersService(repo, txManager, fixedNow).StartTimer(ctx, testOwner, "work")
		assert.ErrorIs(t, err, ErrTooManyTimers)
		repo.AssertNotCalled(t, "CreateTimer", mock.Anything, mock.Anything)
	})

	t.Run("name too long", func(t *testing.T) {
		repo := &db.MockTimersRepository{}
		txManager := &txmanager.MockTransactionManager{}

		_, err := NewTimersService(repo, txManager, fixedNow).StartTimer(ctx, testOwner, strings.Repeat("x", 33))
		assert.ErrorIs(t, err, ErrNameTooLong)
		txManager.AssertNotCalled(t, "WithTransaction", mock.Anything, mock.Anything)
	})

	t.Run("owner is locked before counting", func(t *testing.T) {
		repo := &db.MockTimersRepository{}
		txManager := &txmanager.MockTransactionManager{}
		txManager.On("WithTransaction", ctx, mock.Anything).Return(nil).Once()

		var calls []string
		repo.On("LockTimersOwner", ctx, testOwner).
			Run(func(mock.Arguments) { calls = append(calls, "lock") }).Return(nil).Once()
		repo.On("CountTimersByOwner", ctx, testOwner).
			Run(func(mock.Arguments) { calls = append(calls, "count") }).Return(0, nil).Once()
		repo.On("CreateTimer", ctx, mock.Anything).
			Run(func(mock.Arguments) { calls = append(calls, "create") }).Return(nil).Once()

		_, err := NewTimersService(repo, txManager, fixedNow).StartTimer(ctx, testOwner, "work")
		require.NoError(t, err)
		assert.Equal(t, []string{"lock", "count", "create"}, calls)
		repo.AssertExpectations(t)
	})

	t.Run("lock failure aborts", func(t *testing.T) {
		repo := &db.MockTimersRepository{}
		txManager := &txmanager.MockTransactionManager{}
		txManager.On("WithTransaction", ctx, mock.Anything).Return(nil).Once()
		repo.On("LockTimersOwner", ctx, testOwner).Return(errors.New("db down")).Once()

		_, err := NewTimersService(repo, txManager, fixedNow).StartTimer(ctx, testOwner, "work")
		require.Error(t, err)
		repo.AssertNotCalled(t, "CountTimersByOwner", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "CreateTimer", mock.Anything, mock.Anything)
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		repo := &db.MockTimersRepository{}
		txManager := &txmanager.MockTransactionManager{}
		txManager.On("WithTransaction", ctx, mock.Anything).Return(nil).Once()
		repo.On("LockTimersOwner", ctx, testOwner).Return(nil).Once()
		repo.On("CountTimersByOwner", ctx, testOwner).Return(0, errors.New("db down")).Once()

		_, err := NewTimersService(repo, txManager, fixedNow).StartTimer(ctx, testOwner, "work")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to start timer")
	})
}

func TestTimersService_WithStore(t *testing.T) {
	ctx := context.Background()
	conn, schema := testutils.NewSQLiteTestDB(t)
	service := NewTimersService(
		db.NewSQLTimersRepository(conn, schema),
		txmanager.NewTransactionManager(conn),
		fixedNow,
	)

	for i := 0; i < MaxTimersPerOwner; i++ {
		_, err := service.StartTimer(ctx, testOwner, "")
		require.NoError(t, err)
	}
	_, err := service.StartTimer(ctx, testOwner, "one too many")
	assert.ErrorIs(t, err, ErrTooManyTimers)

	timers, err := service.ListTimers(ctx, testOwner)
	require.NoError(t, err)
	assert.Len(t, timers, MaxTimersPerOwner)

	deleted, err := service.DeleteTimer(ctx, testOwner, DefaultTimerName)
	require.NoError(t, err)
	assert.True(t, deleted)

	timers, err = service.ListTimers(ctx, testOwner)
	require.NoError(t, err)
	assert.Empty(t, timers)
}

func assertConcurrentStartsRespectLimit(t *testing.T, service *TimersService, owner string) {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < MaxTimersPerOwner-2; i++ {
		_, err := service.StartTimer(ctx, owner, "")
		require.NoError(t, err)
	}

	const attempts = 8
	var wg sync.WaitGroup
	var started, rejected atomic.Int32
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.StartTimer(ctx, owner, "race")
			switch {
			case err == nil:
				started.Add(1)
			case errors.Is(err, ErrTooManyTimers):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(2), started.Load())
	assert.Equal(t, int32(attempts-2), rejected.Load())

	timers, err := service.ListTimers(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, timers, MaxTimersPerOwner)
}

func TestTimersService_ConcurrentStartsRespectLimit(t *testing.T) {
	conn, schema := testutils.NewSQLiteTestDB(t)
	service := NewTimersService(
		db.NewSQLTimersRepository(conn, schema),
		txmanager.NewTransactionManager(conn),
		fixedNow,
	)

	assertConcurrentStartsRespectLimit(t, service, testOwner)
}

func TestTimersService_ConcurrentStartsRespectLimit_Integration(t *testing.T) {
	conn, schema := testutils.NewIntegrationTestDB(t)
	service := NewTimersService(
		db.NewSQLTimersRepository(conn, schema),
		txmanager.NewTransactionManager(conn),
		fixedNow,
	)

	assertConcurrentStartsRespectLimit(t, service, testutils.NewExternalID())
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0:00:00", FormatElapsed(0))
	assert.Equal(t, "0:00:00", FormatElapsed(-time.Second))
	assert.Equal(t, "1:02:03", FormatElapsed(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "2d 3:00:00", FormatElapsed(51*time.Hour))
}
