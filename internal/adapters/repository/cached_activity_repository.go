package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

var _ domain.ActivityRepository = (*CachedActivityRepository)(nil)

// CachedActivityRepository caches week-range reads, the hot path behind the
// weekly stats and chart screens. Any write for a user invalidates all of
// that user's cached ranges.
type CachedActivityRepository struct {
	next  domain.ActivityRepository
	cache *redis.Client
}

func NewCachedActivityRepository(next domain.ActivityRepository, cache *redis.Client) *CachedActivityRepository {
	return &CachedActivityRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedActivityRepository) rangeKey(userID, startDate, endDate string) string {
	return fmt.Sprintf("activities:%s:%s:%s", userID, startDate, endDate)
}

func (r *CachedActivityRepository) invalidate(ctx context.Context, userID string) {
	pattern := fmt.Sprintf("activities:%s:*", userID)

	iter := r.cache.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := r.cache.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("[CACHE] Failed to invalidate %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("[CACHE] Scan failed for user %s: %v", userID, err)
	}
}

func (r *CachedActivityRepository) GetByDate(ctx context.Context, userID, date string) (*domain.DailyActivity, error) {
	return r.next.GetByDate(ctx, userID, date)
}

func (r *CachedActivityRepository) Upsert(ctx context.Context, activity *domain.DailyActivity) error {
	if err := r.next.Upsert(ctx, activity); err != nil {
		return err
	}
	r.invalidate(ctx, activity.UserID)
	return nil
}

func (r *CachedActivityRepository) ListByDateRange(ctx context.Context, userID, startDate, endDate string) ([]*domain.DailyActivity, error) {
	cacheKey := r.rangeKey(userID, startDate, endDate)

	val, err := r.cache.Get(ctx, cacheKey).Result()
	if err == nil {
		var activities []*domain.DailyActivity
		if err := json.Unmarshal([]byte(val), &activities); err == nil {
			return activities, nil
		}

		log.Printf("[CACHE] Corrupted data for %s, cleaning up key", cacheKey)
		r.cache.Del(ctx, cacheKey)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	activities, err := r.next.ListByDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(activities); err == nil {
		if setErr := r.cache.Set(ctx, cacheKey, data, 10*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return activities, nil
}
