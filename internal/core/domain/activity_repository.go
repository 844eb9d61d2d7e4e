package domain

import (
	"context"
	"errors"
)

var (
	ErrActivityNotFound = errors.New("daily activity not found")
)

type ActivityRepository interface {
	// GetByDate retrieves the single record for (userID, date).
	// Returns ErrActivityNotFound when no record exists; any other error is a
	// real storage failure and must be surfaced, never collapsed into "no data".
	GetByDate(ctx context.Context, userID, date string) (*DailyActivity, error)

	// Upsert inserts the record or replaces the existing one for the same
	// (userID, date) key.
	Upsert(ctx context.Context, activity *DailyActivity) error

	// ListByDateRange retrieves all records for the user with startDate <= date
	// <= endDate, ordered by date ascending.
	ListByDateRange(ctx context.Context, userID, startDate, endDate string) ([]*DailyActivity, error)
}
