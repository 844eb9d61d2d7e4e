package services

import (
	"context"
	"fmt"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

type ProfileService struct {
	repo     domain.ProfileRepository
	userRepo domain.UserRepository
}

func NewProfileService(repo domain.ProfileRepository, userRepo domain.UserRepository) *ProfileService {
	return &ProfileService{
		repo:     repo,
		userRepo: userRepo,
	}
}

// Save stores the onboarding result. Email always comes from the account, not
// the request, so a profile can never point at someone else's address.
func (s *ProfileService) Save(ctx context.Context, userID, displayName string, prefs domain.Preferences) (*domain.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile service: fetch user: %w", err)
	}

	if displayName == "" {
		displayName = user.DisplayName
	}

	profile, err := domain.NewUserProfile(user.ID, user.Email, displayName, prefs)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("profile service: save: %w", err)
	}
	return profile, nil
}

// Get returns the stored profile, or ErrProfileNotFound before onboarding.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.repo.GetByUserID(ctx, userID)
}
