package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

// MedicationTracker is the slice of ActivityService the medication flow needs
// to keep the daily record's medication dimension in step with the list.
type MedicationTracker interface {
	UpdateMedicationTracking(ctx context.Context, userID, date string, total, taken, streak int) (*domain.DailyActivity, error)
	GetDaily(ctx context.Context, userID, date string) (*domain.DailyActivity, error)
}

type MedicationService struct {
	repo    domain.MedicationRepository
	tracker MedicationTracker
}

func NewMedicationService(repo domain.MedicationRepository, tracker MedicationTracker) *MedicationService {
	return &MedicationService{
		repo:    repo,
		tracker: tracker,
	}
}

func (s *MedicationService) Add(ctx context.Context, userID, name string, days []string) (*domain.Medication, error) {
	med, err := domain.NewMedication(userID, name, days)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, med); err != nil {
		return nil, fmt.Errorf("medication service: create: %w", err)
	}
	return med, nil
}

func (s *MedicationService) List(ctx context.Context, userID string) ([]*domain.Medication, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *MedicationService) Delete(ctx context.Context, userID, id string) error {
	med, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if med.UserID != userID {
		return domain.ErrUnauthorized
	}

	return s.repo.Delete(ctx, id)
}

// MarkTaken flags the medication for today and refreshes the daily activity
// record so the weekly stats see the new taken count immediately.
func (s *MedicationService) MarkTaken(ctx context.Context, userID, id string, ref time.Time) (*domain.Medication, error) {
	med, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if med.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	med.MarkTaken()
	if err := s.repo.Update(ctx, med); err != nil {
		return nil, fmt.Errorf("medication service: update: %w", err)
	}

	if err := s.syncDailyActivity(ctx, userID, ref); err != nil {
		return nil, err
	}

	return med, nil
}

// ResetDaily clears every taken_today flag, the midnight rollover the mobile
// client used to do on first launch of the day.
func (s *MedicationService) ResetDaily(ctx context.Context, userID string, ref time.Time) error {
	if err := s.repo.ResetTakenToday(ctx, userID); err != nil {
		return fmt.Errorf("medication service: reset: %w", err)
	}

	return s.syncDailyActivity(ctx, userID, ref)
}

// syncDailyActivity recomputes today's total/taken from the list and merges
// them into the daily record, carrying the already-stored streak forward.
func (s *MedicationService) syncDailyActivity(ctx context.Context, userID string, ref time.Time) error {
	meds, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("medication service: list for sync: %w", err)
	}

	weekday := ref.UTC().Weekday()
	total, taken := 0, 0
	for _, m := range meds {
		if !m.ScheduledOn(weekday) {
			continue
		}
		total++
		if m.TakenToday {
			taken++
		}
	}

	date := ref.UTC().Format(domain.DateLayout)

	streak := 0
	if existing, err := s.tracker.GetDaily(ctx, userID, date); err == nil {
		streak = existing.Medications.Streak
	} else if !errors.Is(err, domain.ErrActivityNotFound) {
		return fmt.Errorf("medication service: read daily record: %w", err)
	}

	if _, err := s.tracker.UpdateMedicationTracking(ctx, userID, date, total, taken, streak); err != nil {
		return err
	}
	return nil
}
