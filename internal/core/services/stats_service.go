package services

import (
	"context"
	"fmt"
	"time"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

type StatsService struct {
	repo domain.ActivityRepository
}

func NewStatsService(repo domain.ActivityRepository) *StatsService {
	return &StatsService{repo: repo}
}

// WeeklyReport pairs the derived stats with the calendar window that was
// actually queried. WeekStart/WeekEnd inside Stats reflect the data found,
// which can be narrower than the window when some days have no record.
type WeeklyReport struct {
	RangeStart string             `json:"range_start"`
	RangeEnd   string             `json:"range_end"`
	Stats      domain.WeeklyStats `json:"stats"`
}

// GetWeeklyStats aggregates whatever records exist in the window. An empty
// window yields zeroed stats, not an error; storage failures propagate.
func (s *StatsService) GetWeeklyStats(ctx context.Context, userID string, week domain.WeekRange) (*WeeklyReport, error) {
	activities, err := s.repo.ListByDateRange(ctx, userID, week.StartDate, week.EndDate)
	if err != nil {
		return nil, fmt.Errorf("stats service: list activities: %w", err)
	}

	return &WeeklyReport{
		RangeStart: week.StartDate,
		RangeEnd:   week.EndDate,
		Stats:      domain.CalculateWeeklyStats(activities),
	}, nil
}

// GetChartWeek returns exactly seven records, Sunday through Saturday, for
// the week containing ref, with placeholders where nothing was tracked.
func (s *StatsService) GetChartWeek(ctx context.Context, userID string, ref time.Time) ([]*domain.DailyActivity, error) {
	week := domain.CurrentWeekRange(ref)

	activities, err := s.repo.ListByDateRange(ctx, userID, week.StartDate, week.EndDate)
	if err != nil {
		return nil, fmt.Errorf("stats service: list activities: %w", err)
	}

	return domain.FillWeek(userID, activities, week), nil
}
