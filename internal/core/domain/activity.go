package domain

import (
	"errors"
	"time"
)

var (
	ErrActivityInvalidUserID = errors.New("invalid user id")
	ErrInvalidDate           = errors.New("invalid date (must be YYYY-MM-DD)")
	ErrInvalidMedCounts      = errors.New("invalid medication counts (need total >= taken >= 0)")
	ErrNegativeAmount        = errors.New("amount cannot be negative")
	ErrNegativeStreak        = errors.New("streak cannot be negative")
	ErrInvalidScale          = errors.New("mood and energy must be between 1 and 5")
)

const (
	DateLayout = "2006-01-02"

	DefaultWaterGoalOz = 64.0
	DefaultStepGoal    = 10000
)

type MedicationSummary struct {
	Total  int `json:"total"`
	Taken  int `json:"taken"`
	Missed int `json:"missed"`
	Streak int `json:"streak"`
}

type WaterSummary struct {
	TotalOz    float64 `json:"total_oz"`
	GoalOz     float64 `json:"goal_oz"`
	Percentage float64 `json:"percentage"`
	Streak     int     `json:"streak"`
}

type StepsSummary struct {
	Count      int     `json:"count"`
	Goal       int     `json:"goal"`
	Percentage float64 `json:"percentage"`
	Streak     int     `json:"streak"`
}

// DailyActivity is the per-user, per-date rollup of everything tracked that
// day. It is created lazily on the first write to any dimension; later writes
// merge into the same record. Mood and Energy are nil when not tracked, which
// is different from zero.
type DailyActivity struct {
	Date   string `json:"date"`
	UserID string `json:"user_id"`

	Medications MedicationSummary `json:"medications"`
	Water       WaterSummary      `json:"water"`
	Steps       StepsSummary      `json:"steps"`

	Mood   *int `json:"mood,omitempty"`
	Energy *int `json:"energy,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidateDate(date string) error {
	if len(date) != len(DateLayout) {
		return ErrInvalidDate
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// NewDailyActivity builds an empty record for (userID, date) with every
// dimension at its documented default: zero counters, 64oz water goal,
// 10000 step goal.
func NewDailyActivity(userID, date string) (*DailyActivity, error) {
	if userID == "" {
		return nil, ErrActivityInvalidUserID
	}
	if err := ValidateDate(date); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &DailyActivity{
		Date:        date,
		UserID:      userID,
		Medications: MedicationSummary{},
		Water:       WaterSummary{GoalOz: DefaultWaterGoalOz},
		Steps:       StepsSummary{Goal: DefaultStepGoal},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// PlaceholderActivity is the zero-valued stand-in used when a chart needs an
// entry for a day that has no stored record. It is never persisted.
func PlaceholderActivity(userID, date string) *DailyActivity {
	return &DailyActivity{
		Date:        date,
		UserID:      userID,
		Medications: MedicationSummary{},
		Water:       WaterSummary{GoalOz: DefaultWaterGoalOz},
		Steps:       StepsSummary{Goal: DefaultStepGoal},
	}
}

// SetMedications replaces the medication dimension. Missed is always derived
// as total - taken and never accepted from the caller.
func (a *DailyActivity) SetMedications(total, taken, streak int) error {
	if taken < 0 || total < taken {
		return ErrInvalidMedCounts
	}
	if streak < 0 {
		return ErrNegativeStreak
	}

	a.Medications = MedicationSummary{
		Total:  total,
		Taken:  taken,
		Missed: total - taken,
		Streak: streak,
	}
	a.touch()
	return nil
}

// SetWater replaces the water dimension. A zero goal yields a zero
// percentage, never NaN.
func (a *DailyActivity) SetWater(totalOz, goalOz float64, streak int) error {
	if totalOz < 0 || goalOz < 0 {
		return ErrNegativeAmount
	}
	if streak < 0 {
		return ErrNegativeStreak
	}

	percentage := 0.0
	if goalOz > 0 {
		percentage = totalOz / goalOz * 100
	}

	a.Water = WaterSummary{
		TotalOz:    totalOz,
		GoalOz:     goalOz,
		Percentage: percentage,
		Streak:     streak,
	}
	a.touch()
	return nil
}

// SetSteps replaces the steps dimension, with the same zero-goal guard as
// SetWater.
func (a *DailyActivity) SetSteps(count, goal, streak int) error {
	if count < 0 || goal < 0 {
		return ErrNegativeAmount
	}
	if streak < 0 {
		return ErrNegativeStreak
	}

	percentage := 0.0
	if goal > 0 {
		percentage = float64(count) / float64(goal) * 100
	}

	a.Steps = StepsSummary{
		Count:      count,
		Goal:       goal,
		Percentage: percentage,
		Streak:     streak,
	}
	a.touch()
	return nil
}

// SetMoodEnergy updates mood and energy independently: a nil argument leaves
// the stored value alone, so tracking one scale never erases the other.
func (a *DailyActivity) SetMoodEnergy(mood, energy *int) error {
	if mood != nil && (*mood < 1 || *mood > 5) {
		return ErrInvalidScale
	}
	if energy != nil && (*energy < 1 || *energy > 5) {
		return ErrInvalidScale
	}

	if mood != nil {
		v := *mood
		a.Mood = &v
	}
	if energy != nil {
		v := *energy
		a.Energy = &v
	}
	a.touch()
	return nil
}

// SetStreaks overwrites just the streak counters of all three goal-tracked
// dimensions, leaving totals and percentages untouched. Used by the streak
// worker after a recompute.
func (a *DailyActivity) SetStreaks(medications, water, steps int) error {
	if medications < 0 || water < 0 || steps < 0 {
		return ErrNegativeStreak
	}

	a.Medications.Streak = medications
	a.Water.Streak = water
	a.Steps.Streak = steps
	a.touch()
	return nil
}

func (a *DailyActivity) touch() {
	a.UpdatedAt = time.Now().UTC()
}

// MedicationsComplete reports whether every scheduled medication was taken
// that day. Days with nothing scheduled do not count as complete.
func (a *DailyActivity) MedicationsComplete() bool {
	return a.Medications.Total > 0 && a.Medications.Taken == a.Medications.Total
}

// WaterGoalMet reports whether the day's intake reached the goal.
func (a *DailyActivity) WaterGoalMet() bool {
	return a.Water.GoalOz > 0 && a.Water.TotalOz >= a.Water.GoalOz
}

// StepGoalMet reports whether the day's count reached the goal.
func (a *DailyActivity) StepGoalMet() bool {
	return a.Steps.Goal > 0 && a.Steps.Count >= a.Steps.Goal
}
