package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

type FamilyService struct {
	repo     domain.FamilyRepository
	userRepo domain.UserRepository
}

func NewFamilyService(repo domain.FamilyRepository, userRepo domain.UserRepository) *FamilyService {
	return &FamilyService{
		repo:     repo,
		userRepo: userRepo,
	}
}

func (s *FamilyService) Create(ctx context.Context, userID, familyName string) (*domain.Family, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("family service: fetch creator: %w", err)
	}

	family, err := domain.NewFamily(user.ID, user.Email, user.DisplayName, familyName)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, family); err != nil {
		return nil, fmt.Errorf("family service: create: %w", err)
	}
	return family, nil
}

// Join adds the user to the family behind the invite code. Codes are stored
// uppercase, so lookup is case-insensitive from the caller's point of view.
func (s *FamilyService) Join(ctx context.Context, userID, inviteCode string) (*domain.Family, error) {
	inviteCode = strings.ToUpper(strings.TrimSpace(inviteCode))
	if inviteCode == "" {
		return nil, domain.ErrInvalidInviteCode
	}

	family, err := s.repo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		if errors.Is(err, domain.ErrFamilyNotFound) {
			return nil, domain.ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("family service: lookup by code: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("family service: fetch joiner: %w", err)
	}

	if err := family.AddMember(user.ID, user.Email, user.DisplayName); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateMembers(ctx, family); err != nil {
		return nil, fmt.Errorf("family service: update members: %w", err)
	}
	return family, nil
}

// GetMine returns the family the user belongs to, or ErrFamilyNotFound.
func (s *FamilyService) GetMine(ctx context.Context, userID string) (*domain.Family, error) {
	return s.repo.GetByMemberID(ctx, userID)
}

func (s *FamilyService) Leave(ctx context.Context, userID string) error {
	family, err := s.repo.GetByMemberID(ctx, userID)
	if err != nil {
		return err
	}

	if err := family.RemoveMember(userID); err != nil {
		return err
	}

	if err := s.repo.UpdateMembers(ctx, family); err != nil {
		return fmt.Errorf("family service: update members: %w", err)
	}
	return nil
}
