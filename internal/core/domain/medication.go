package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMedicationNotFound  = errors.New("medication not found")
	ErrMedicationNameEmpty = errors.New("medication name cannot be empty")
	ErrInvalidWeekday      = errors.New("invalid weekday name")
	ErrUnauthorized        = errors.New("unauthorized access")
)

var allWeekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Medication is one entry of a user's medication list. Days holds lowercase
// weekday names; TakenToday is reset to false by the daily reset.
type Medication struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Name       string    `json:"name" db:"name"`
	Days       []string  `json:"days"`
	TakenToday bool      `json:"taken_today" db:"taken_today"`
	Active     bool      `json:"active" db:"active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type MedicationRepository interface {
	Create(ctx context.Context, med *Medication) error

	GetByID(ctx context.Context, id string) (*Medication, error)

	// ListByUserID returns the user's medications, newest first.
	ListByUserID(ctx context.Context, userID string) ([]*Medication, error)

	Update(ctx context.Context, med *Medication) error

	Delete(ctx context.Context, id string) error

	// ResetTakenToday flips taken_today back to false for every medication of
	// the user, in one statement.
	ResetTakenToday(ctx context.Context, userID string) error
}

// NewMedication builds a list entry. An empty day list means every day, as
// the mobile client did.
func NewMedication(userID, name string, days []string) (*Medication, error) {
	if userID == "" {
		return nil, ErrActivityInvalidUserID
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMedicationNameEmpty
	}

	normalized, err := normalizeDays(days)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Medication{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Days:      normalized,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (m *Medication) MarkTaken() {
	m.TakenToday = true
	m.UpdatedAt = time.Now().UTC()
}

// ScheduledOn reports whether the medication is due on the given weekday.
func (m *Medication) ScheduledOn(day time.Weekday) bool {
	if !m.Active {
		return false
	}

	name := strings.ToLower(day.String())
	for _, d := range m.Days {
		if d == name {
			return true
		}
	}
	return false
}

func normalizeDays(days []string) ([]string, error) {
	if len(days) == 0 {
		return append([]string(nil), allWeekdays...), nil
	}

	seen := make(map[string]bool)
	var normalized []string
	for _, d := range days {
		name := strings.ToLower(strings.TrimSpace(d))
		if !isWeekday(name) {
			return nil, ErrInvalidWeekday
		}
		if !seen[name] {
			seen[name] = true
			normalized = append(normalized, name)
		}
	}
	return normalized, nil
}

func isWeekday(name string) bool {
	for _, d := range allWeekdays {
		if d == name {
			return true
		}
	}
	return false
}
