package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHydrationNotFound = errors.New("hydration log not found")
)

// HydrationLog accumulates one day of water intake. The activity record's
// water dimension is derived from it on every pour.
type HydrationLog struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Date      string    `json:"date" db:"date"`
	TotalOz   float64   `json:"total_oz" db:"total_oz"`
	GoalOz    float64   `json:"goal_oz" db:"goal_oz"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type HydrationRepository interface {
	Create(ctx context.Context, log *HydrationLog) error

	// GetByDate returns ErrHydrationNotFound when nothing was logged that day.
	GetByDate(ctx context.Context, userID, date string) (*HydrationLog, error)

	Update(ctx context.Context, log *HydrationLog) error
}

func NewHydrationLog(userID, date string, goalOz float64) (*HydrationLog, error) {
	if userID == "" {
		return nil, ErrActivityInvalidUserID
	}
	if err := ValidateDate(date); err != nil {
		return nil, err
	}
	if goalOz <= 0 {
		goalOz = DefaultWaterGoalOz
	}

	now := time.Now().UTC()
	return &HydrationLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      date,
		GoalOz:    goalOz,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (l *HydrationLog) AddWater(amountOz float64) error {
	if amountOz < 0 {
		return ErrNegativeAmount
	}

	l.TotalOz += amountOz
	l.UpdatedAt = time.Now().UTC()
	return nil
}
