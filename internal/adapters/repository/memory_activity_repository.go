package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

type InMemoryActivityRepository struct {
	store map[string]*domain.DailyActivity

	mu sync.RWMutex
}

func NewInMemoryActivityRepository() *InMemoryActivityRepository {
	return &InMemoryActivityRepository{
		store: make(map[string]*domain.DailyActivity),
	}
}

func key(userID, date string) string {
	return userID + "_" + date
}

func (r *InMemoryActivityRepository) GetByDate(ctx context.Context, userID, date string) (*domain.DailyActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.store[key(userID, date)]
	if !ok {
		return nil, domain.ErrActivityNotFound
	}
	clone := *activity
	return &clone, nil
}

func (r *InMemoryActivityRepository) Upsert(ctx context.Context, activity *domain.DailyActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *activity
	r.store[key(activity.UserID, activity.Date)] = &clone
	return nil
}

func (r *InMemoryActivityRepository) ListByDateRange(ctx context.Context, userID, startDate, endDate string) ([]*domain.DailyActivity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var activities []*domain.DailyActivity
	for _, a := range r.store {
		if a.UserID == userID && a.Date >= startDate && a.Date <= endDate {
			clone := *a
			activities = append(activities, &clone)
		}
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Date < activities[j].Date
	})

	return activities, nil
}
