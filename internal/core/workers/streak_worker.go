package workers

import (
	"context"
	"log"
	"time"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

// streakLookback bounds how far back a streak recompute reads. Nobody keeps a
// 90-day streak alive without the worker having run in between.
const streakLookback = 90

type ActivityReader interface {
	ListByDateRange(ctx context.Context, userID, startDate, endDate string) ([]*domain.DailyActivity, error)
}

type StreakUpdater interface {
	UpdateStreaks(ctx context.Context, userID, date string, medications, water, steps int) (*domain.DailyActivity, error)
}

type StreakJob struct {
	UserID string
}

// StreakWorker recomputes per-dimension streaks from the daily records in the
// background, so a tracking update returns without waiting on the history
// scan. Jobs are deduplicated only by the channel buffer; recomputing twice
// is harmless.
type StreakWorker struct {
	reader  ActivityReader
	updater StreakUpdater
	jobs    chan StreakJob
}

func NewStreakWorker(reader ActivityReader, updater StreakUpdater) *StreakWorker {
	return &StreakWorker{
		reader:  reader,
		updater: updater,
		jobs:    make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak Worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(userID string) {
	select {
	case w.jobs <- StreakJob{UserID: userID}:
	default:
		log.Printf("Streak Worker queue full! Dropping job for user %s", userID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	now := time.Now().UTC()
	today := now.Format(domain.DateLayout)
	since := now.AddDate(0, 0, -streakLookback).Format(domain.DateLayout)

	activities, err := w.reader.ListByDateRange(ctx, job.UserID, since, today)
	if err != nil {
		log.Printf("Worker Error fetching activities for %s: %v", job.UserID, err)
		return
	}
	if len(activities) == 0 {
		return
	}

	meds, water, steps := calculateStreaks(activities, now)

	current := activities[len(activities)-1]
	if current.Date == today &&
		current.Medications.Streak == meds &&
		current.Water.Streak == water &&
		current.Steps.Streak == steps {
		return
	}

	if _, err := w.updater.UpdateStreaks(ctx, job.UserID, today, meds, water, steps); err != nil {
		log.Printf("Worker Failed to update streaks for %s: %v", job.UserID, err)
		return
	}
	log.Printf("Streaks updated for %s: meds=%d water=%d steps=%d", job.UserID, meds, water, steps)
}

// calculateStreaks counts, per dimension, the consecutive days up to ref on
// which the goal was met. A not-yet-qualified today does not break a streak
// that was alive through yesterday, matching how the mobile client displayed
// streaks mid-day.
func calculateStreaks(activities []*domain.DailyActivity, ref time.Time) (meds, water, steps int) {
	byDate := make(map[string]*domain.DailyActivity, len(activities))
	for _, a := range activities {
		byDate[a.Date] = a
	}

	meds = dimensionStreak(byDate, ref, (*domain.DailyActivity).MedicationsComplete)
	water = dimensionStreak(byDate, ref, (*domain.DailyActivity).WaterGoalMet)
	steps = dimensionStreak(byDate, ref, (*domain.DailyActivity).StepGoalMet)
	return meds, water, steps
}

func dimensionStreak(byDate map[string]*domain.DailyActivity, ref time.Time, met func(*domain.DailyActivity) bool) int {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	if a, ok := byDate[day.Format(domain.DateLayout)]; !ok || !met(a) {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		a, ok := byDate[day.Format(domain.DateLayout)]
		if !ok || !met(a) {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}
