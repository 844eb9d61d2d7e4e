package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

const lockStripes = 64

// ActivityService owns all writes to daily activity records. Every merge is a
// read-modify-write of one dimension, so updates for the same (userID, date)
// are serialized through a striped lock: two near-simultaneous merges (say a
// medication tap and a water pour) can no longer clobber each other's
// dimension with a stale snapshot.
type ActivityService struct {
	repo  domain.ActivityRepository
	locks [lockStripes]sync.Mutex
}

func NewActivityService(repo domain.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

func (s *ActivityService) lockFor(userID, date string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(userID))
	h.Write([]byte{'_'})
	h.Write([]byte(date))
	return &s.locks[h.Sum32()%lockStripes]
}

// fetchOrNew loads the existing record or starts a fresh one with default
// dimensions. Only a genuine not-found turns into a new record; storage
// failures propagate so a read error can never silently discard the other
// dimensions of an existing record.
func (s *ActivityService) fetchOrNew(ctx context.Context, userID, date string) (*domain.DailyActivity, error) {
	activity, err := s.repo.GetByDate(ctx, userID, date)
	if err == nil {
		return activity, nil
	}
	if errors.Is(err, domain.ErrActivityNotFound) {
		return domain.NewDailyActivity(userID, date)
	}
	return nil, fmt.Errorf("activity service: fetch existing record: %w", err)
}

func (s *ActivityService) UpdateMedicationTracking(ctx context.Context, userID, date string, total, taken, streak int) (*domain.DailyActivity, error) {
	mu := s.lockFor(userID, date)
	mu.Lock()
	defer mu.Unlock()

	activity, err := s.fetchOrNew(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	if err := activity.SetMedications(total, taken, streak); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, activity); err != nil {
		return nil, fmt.Errorf("activity service: persist medication update: %w", err)
	}
	return activity, nil
}

func (s *ActivityService) UpdateWaterTracking(ctx context.Context, userID, date string, totalOz, goalOz float64, streak int) (*domain.DailyActivity, error) {
	mu := s.lockFor(userID, date)
	mu.Lock()
	defer mu.Unlock()

	activity, err := s.fetchOrNew(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	if err := activity.SetWater(totalOz, goalOz, streak); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, activity); err != nil {
		return nil, fmt.Errorf("activity service: persist water update: %w", err)
	}
	return activity, nil
}

func (s *ActivityService) UpdateStepsTracking(ctx context.Context, userID, date string, count, goal, streak int) (*domain.DailyActivity, error) {
	mu := s.lockFor(userID, date)
	mu.Lock()
	defer mu.Unlock()

	activity, err := s.fetchOrNew(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	if err := activity.SetSteps(count, goal, streak); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, activity); err != nil {
		return nil, fmt.Errorf("activity service: persist steps update: %w", err)
	}
	return activity, nil
}

func (s *ActivityService) UpdateMoodEnergy(ctx context.Context, userID, date string, mood, energy *int) (*domain.DailyActivity, error) {
	mu := s.lockFor(userID, date)
	mu.Lock()
	defer mu.Unlock()

	activity, err := s.fetchOrNew(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	if err := activity.SetMoodEnergy(mood, energy); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, activity); err != nil {
		return nil, fmt.Errorf("activity service: persist mood/energy update: %w", err)
	}
	return activity, nil
}

// UpdateStreaks overwrites the streak counters of the record without touching
// any other dimension field. Called by the streak worker.
func (s *ActivityService) UpdateStreaks(ctx context.Context, userID, date string, medications, water, steps int) (*domain.DailyActivity, error) {
	mu := s.lockFor(userID, date)
	mu.Lock()
	defer mu.Unlock()

	activity, err := s.fetchOrNew(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	if err := activity.SetStreaks(medications, water, steps); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, activity); err != nil {
		return nil, fmt.Errorf("activity service: persist streak update: %w", err)
	}
	return activity, nil
}

// GetDaily returns the record for one date, or ErrActivityNotFound.
func (s *ActivityService) GetDaily(ctx context.Context, userID, date string) (*domain.DailyActivity, error) {
	if err := domain.ValidateDate(date); err != nil {
		return nil, err
	}
	return s.repo.GetByDate(ctx, userID, date)
}

// ListRange returns all records inside the inclusive date window, ascending.
func (s *ActivityService) ListRange(ctx context.Context, userID, startDate, endDate string) ([]*domain.DailyActivity, error) {
	if err := domain.ValidateDate(startDate); err != nil {
		return nil, err
	}
	if err := domain.ValidateDate(endDate); err != nil {
		return nil, err
	}
	return s.repo.ListByDateRange(ctx, userID, startDate, endDate)
}
