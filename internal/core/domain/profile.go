package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrProfileNotFound = errors.New("user profile not found")
)

// Preferences is the onboarding-time configuration bundle. Zero values mean
// "not chosen yet"; the tracking defaults in activity.go apply until the user
// picks their own goals.
type Preferences struct {
	WaterGoalOz      float64 `json:"water_goal_oz"`
	WaterIncrementOz float64 `json:"water_increment_oz"`
	StepGoal         int     `json:"step_goal"`
	TextSize         string  `json:"text_size,omitempty"`
	HighContrast     bool    `json:"high_contrast"`
	ReminderStyle    string  `json:"reminder_style,omitempty"`
	QuietHoursStart  string  `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd    string  `json:"quiet_hours_end,omitempty"`
	ShareWins        bool    `json:"share_wins"`
}

type UserProfile struct {
	UserID      string      `json:"user_id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type ProfileRepository interface {
	// Save creates the profile or merges over the existing one, preserving
	// CreatedAt on merge.
	Save(ctx context.Context, profile *UserProfile) error

	// GetByUserID returns ErrProfileNotFound when the user never completed
	// onboarding.
	GetByUserID(ctx context.Context, userID string) (*UserProfile, error)
}

func NewUserProfile(userID, email, displayName string, prefs Preferences) (*UserProfile, error) {
	if userID == "" {
		return nil, ErrActivityInvalidUserID
	}

	now := time.Now().UTC()
	return &UserProfile{
		UserID:      userID,
		Email:       email,
		DisplayName: displayName,
		Preferences: prefs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
