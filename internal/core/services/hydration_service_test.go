package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atherahq/athera-care-api/internal/core/domain"
	"github.com/atherahq/athera-care-api/internal/core/services"
)

type MockHydrationRepo struct {
	mock.Mock
}

func (m *MockHydrationRepo) Create(ctx context.Context, log *domain.HydrationLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *MockHydrationRepo) GetByDate(ctx context.Context, userID, date string) (*domain.HydrationLog, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HydrationLog), args.Error(1)
}

func (m *MockHydrationRepo) Update(ctx context.Context, log *domain.HydrationLog) error {
	return m.Called(ctx, log).Error(0)
}

type MockWaterTracker struct {
	mock.Mock
}

func (m *MockWaterTracker) UpdateWaterTracking(ctx context.Context, userID, date string, totalOz, goalOz float64, streak int) (*domain.DailyActivity, error) {
	args := m.Called(ctx, userID, date, totalOz, goalOz, streak)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyActivity), args.Error(1)
}

func (m *MockWaterTracker) GetDaily(ctx context.Context, userID, date string) (*domain.DailyActivity, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyActivity), args.Error(1)
}

func TestHydrationService_AddWater(t *testing.T) {
	ctx := context.Background()
	ref := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	date := "2026-03-16"

	t.Run("Success: First pour of the day creates the log", func(t *testing.T) {
		repo := new(MockHydrationRepo)
		tracker := new(MockWaterTracker)
		svc := services.NewHydrationService(repo, tracker)

		repo.On("GetByDate", ctx, "u1", date).Return(nil, domain.ErrHydrationNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.HydrationLog")).Return(nil)
		tracker.On("GetDaily", ctx, "u1", date).Return(nil, domain.ErrActivityNotFound)
		tracker.On("UpdateWaterTracking", ctx, "u1", date, 8.0, 64.0, 0).
			Return(&domain.DailyActivity{}, nil)

		log, err := svc.AddWater(ctx, "u1", 8, 64, ref)

		require.Nil(t, err)
		assert.Equal(t, 8.0, log.TotalOz)
		assert.Equal(t, 64.0, log.GoalOz)
		repo.AssertExpectations(t)
		tracker.AssertExpectations(t)
	})

	t.Run("Success: Later pours accumulate and carry the streak", func(t *testing.T) {
		repo := new(MockHydrationRepo)
		tracker := new(MockWaterTracker)
		svc := services.NewHydrationService(repo, tracker)

		existing, _ := domain.NewHydrationLog("u1", date, 64)
		_ = existing.AddWater(24)
		repo.On("GetByDate", ctx, "u1", date).Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)

		daily, _ := domain.NewDailyActivity("u1", date)
		_ = daily.SetWater(24, 64, 3)
		tracker.On("GetDaily", ctx, "u1", date).Return(daily, nil)
		tracker.On("UpdateWaterTracking", ctx, "u1", date, 40.0, 64.0, 3).
			Return(&domain.DailyActivity{}, nil)

		log, err := svc.AddWater(ctx, "u1", 16, 64, ref)

		require.Nil(t, err)
		assert.Equal(t, 40.0, log.TotalOz)
		tracker.AssertExpectations(t)
	})

	t.Run("Success: Zero goal keeps the stored goal", func(t *testing.T) {
		repo := new(MockHydrationRepo)
		tracker := new(MockWaterTracker)
		svc := services.NewHydrationService(repo, tracker)

		existing, _ := domain.NewHydrationLog("u1", date, 80)
		repo.On("GetByDate", ctx, "u1", date).Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)
		tracker.On("GetDaily", ctx, "u1", date).Return(nil, domain.ErrActivityNotFound)
		tracker.On("UpdateWaterTracking", ctx, "u1", date, 8.0, 80.0, 0).
			Return(&domain.DailyActivity{}, nil)

		log, err := svc.AddWater(ctx, "u1", 8, 0, ref)

		require.Nil(t, err)
		assert.Equal(t, 80.0, log.GoalOz)
	})

	t.Run("Error: Negative pour rejected outright", func(t *testing.T) {
		repo := new(MockHydrationRepo)
		svc := services.NewHydrationService(repo, new(MockWaterTracker))

		_, err := svc.AddWater(ctx, "u1", -8, 64, ref)

		assert.Equal(t, domain.ErrNegativeAmount, err)
		repo.AssertNotCalled(t, "GetByDate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error: Storage read failure propagates", func(t *testing.T) {
		repo := new(MockHydrationRepo)
		svc := services.NewHydrationService(repo, new(MockWaterTracker))

		repo.On("GetByDate", ctx, "u1", date).Return(nil, errors.New("timeout"))

		_, err := svc.AddWater(ctx, "u1", 8, 64, ref)

		assert.NotNil(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})
}

func TestHydrationService_GetToday(t *testing.T) {
	ctx := context.Background()
	ref := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)

	t.Run("Not found before the first pour", func(t *testing.T) {
		repo := new(MockHydrationRepo)
		svc := services.NewHydrationService(repo, new(MockWaterTracker))

		repo.On("GetByDate", ctx, "u1", "2026-03-16").Return(nil, domain.ErrHydrationNotFound)

		_, err := svc.GetToday(ctx, "u1", ref)

		assert.Equal(t, domain.ErrHydrationNotFound, err)
	})
}
