package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

type PostgresActivityRepository struct {
	db *sqlx.DB
}

func NewPostgresActivityRepository(db *sqlx.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

// activityRow flattens the nested record for sqlx; the table keys on
// (user_id, date).
type activityRow struct {
	UserID string `db:"user_id"`
	Date   string `db:"date"`

	MedTotal  int `db:"med_total"`
	MedTaken  int `db:"med_taken"`
	MedMissed int `db:"med_missed"`
	MedStreak int `db:"med_streak"`

	WaterTotalOz    float64 `db:"water_total_oz"`
	WaterGoalOz     float64 `db:"water_goal_oz"`
	WaterPercentage float64 `db:"water_percentage"`
	WaterStreak     int     `db:"water_streak"`

	StepsCount      int     `db:"steps_count"`
	StepsGoal       int     `db:"steps_goal"`
	StepsPercentage float64 `db:"steps_percentage"`
	StepsStreak     int     `db:"steps_streak"`

	Mood   *int `db:"mood"`
	Energy *int `db:"energy"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toRow(a *domain.DailyActivity) activityRow {
	return activityRow{
		UserID:          a.UserID,
		Date:            a.Date,
		MedTotal:        a.Medications.Total,
		MedTaken:        a.Medications.Taken,
		MedMissed:       a.Medications.Missed,
		MedStreak:       a.Medications.Streak,
		WaterTotalOz:    a.Water.TotalOz,
		WaterGoalOz:     a.Water.GoalOz,
		WaterPercentage: a.Water.Percentage,
		WaterStreak:     a.Water.Streak,
		StepsCount:      a.Steps.Count,
		StepsGoal:       a.Steps.Goal,
		StepsPercentage: a.Steps.Percentage,
		StepsStreak:     a.Steps.Streak,
		Mood:            a.Mood,
		Energy:          a.Energy,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (r activityRow) toDomain() *domain.DailyActivity {
	return &domain.DailyActivity{
		UserID: r.UserID,
		Date:   r.Date,
		Medications: domain.MedicationSummary{
			Total:  r.MedTotal,
			Taken:  r.MedTaken,
			Missed: r.MedMissed,
			Streak: r.MedStreak,
		},
		Water: domain.WaterSummary{
			TotalOz:    r.WaterTotalOz,
			GoalOz:     r.WaterGoalOz,
			Percentage: r.WaterPercentage,
			Streak:     r.WaterStreak,
		},
		Steps: domain.StepsSummary{
			Count:      r.StepsCount,
			Goal:       r.StepsGoal,
			Percentage: r.StepsPercentage,
			Streak:     r.StepsStreak,
		},
		Mood:      r.Mood,
		Energy:    r.Energy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *PostgresActivityRepository) GetByDate(ctx context.Context, userID, date string) (*domain.DailyActivity, error) {
	var row activityRow
	query := `SELECT * FROM daily_activities WHERE user_id = $1 AND date = $2`

	err := r.db.GetContext(ctx, &row, query, userID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *PostgresActivityRepository) Upsert(ctx context.Context, activity *domain.DailyActivity) error {
	row := toRow(activity)

	query := `
		INSERT INTO daily_activities (
			user_id, date,
			med_total, med_taken, med_missed, med_streak,
			water_total_oz, water_goal_oz, water_percentage, water_streak,
			steps_count, steps_goal, steps_percentage, steps_streak,
			mood, energy, created_at, updated_at
		) VALUES (
			:user_id, :date,
			:med_total, :med_taken, :med_missed, :med_streak,
			:water_total_oz, :water_goal_oz, :water_percentage, :water_streak,
			:steps_count, :steps_goal, :steps_percentage, :steps_streak,
			:mood, :energy, :created_at, :updated_at
		)
		ON CONFLICT (user_id, date) DO UPDATE SET
			med_total = EXCLUDED.med_total,
			med_taken = EXCLUDED.med_taken,
			med_missed = EXCLUDED.med_missed,
			med_streak = EXCLUDED.med_streak,
			water_total_oz = EXCLUDED.water_total_oz,
			water_goal_oz = EXCLUDED.water_goal_oz,
			water_percentage = EXCLUDED.water_percentage,
			water_streak = EXCLUDED.water_streak,
			steps_count = EXCLUDED.steps_count,
			steps_goal = EXCLUDED.steps_goal,
			steps_percentage = EXCLUDED.steps_percentage,
			steps_streak = EXCLUDED.steps_streak,
			mood = EXCLUDED.mood,
			energy = EXCLUDED.energy,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresActivityRepository) ListByDateRange(ctx context.Context, userID, startDate, endDate string) ([]*domain.DailyActivity, error) {
	rows := []activityRow{}

	query := `
		SELECT * FROM daily_activities
		WHERE user_id = $1
		  AND date >= $2
		  AND date <= $3
		ORDER BY date ASC`

	err := r.db.SelectContext(ctx, &rows, query, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	activities := make([]*domain.DailyActivity, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, row.toDomain())
	}
	return activities, nil
}
