package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

// WaterTracker mirrors MedicationTracker for the water dimension.
type WaterTracker interface {
	UpdateWaterTracking(ctx context.Context, userID, date string, totalOz, goalOz float64, streak int) (*domain.DailyActivity, error)
	GetDaily(ctx context.Context, userID, date string) (*domain.DailyActivity, error)
}

type HydrationService struct {
	repo    domain.HydrationRepository
	tracker WaterTracker
}

func NewHydrationService(repo domain.HydrationRepository, tracker WaterTracker) *HydrationService {
	return &HydrationService{
		repo:    repo,
		tracker: tracker,
	}
}

// AddWater accumulates a pour into today's log, creating it on the first pour
// of the day, and pushes the new total into the daily activity record.
func (s *HydrationService) AddWater(ctx context.Context, userID string, amountOz, goalOz float64, ref time.Time) (*domain.HydrationLog, error) {
	if amountOz < 0 {
		return nil, domain.ErrNegativeAmount
	}

	date := ref.UTC().Format(domain.DateLayout)

	log, err := s.repo.GetByDate(ctx, userID, date)
	switch {
	case err == nil:
		if goalOz > 0 {
			log.GoalOz = goalOz
		}
		if err := log.AddWater(amountOz); err != nil {
			return nil, err
		}
		if err := s.repo.Update(ctx, log); err != nil {
			return nil, fmt.Errorf("hydration service: update log: %w", err)
		}

	case errors.Is(err, domain.ErrHydrationNotFound):
		log, err = domain.NewHydrationLog(userID, date, goalOz)
		if err != nil {
			return nil, err
		}
		if err := log.AddWater(amountOz); err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, log); err != nil {
			return nil, fmt.Errorf("hydration service: create log: %w", err)
		}

	default:
		return nil, fmt.Errorf("hydration service: read log: %w", err)
	}

	streak := 0
	if existing, err := s.tracker.GetDaily(ctx, userID, date); err == nil {
		streak = existing.Water.Streak
	} else if !errors.Is(err, domain.ErrActivityNotFound) {
		return nil, fmt.Errorf("hydration service: read daily record: %w", err)
	}

	if _, err := s.tracker.UpdateWaterTracking(ctx, userID, date, log.TotalOz, log.GoalOz, streak); err != nil {
		return nil, err
	}

	return log, nil
}

// GetToday returns today's log, or ErrHydrationNotFound before the first pour.
func (s *HydrationService) GetToday(ctx context.Context, userID string, ref time.Time) (*domain.HydrationLog, error) {
	date := ref.UTC().Format(domain.DateLayout)
	return s.repo.GetByDate(ctx, userID, date)
}
