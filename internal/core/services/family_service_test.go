package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atherahq/athera-care-api/internal/core/domain"
	"github.com/atherahq/athera-care-api/internal/core/services"
)

type MockFamilyRepo struct {
	mock.Mock
}

func (m *MockFamilyRepo) Create(ctx context.Context, family *domain.Family) error {
	return m.Called(ctx, family).Error(0)
}

func (m *MockFamilyRepo) GetByID(ctx context.Context, id string) (*domain.Family, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Family), args.Error(1)
}

func (m *MockFamilyRepo) GetByInviteCode(ctx context.Context, code string) (*domain.Family, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Family), args.Error(1)
}

func (m *MockFamilyRepo) GetByMemberID(ctx context.Context, userID string) (*domain.Family, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Family), args.Error(1)
}

func (m *MockFamilyRepo) UpdateMembers(ctx context.Context, family *domain.Family) error {
	return m.Called(ctx, family).Error(0)
}

func testUser(id, email, name string) *domain.User {
	u, _ := domain.NewUser(id, email, name)
	return u
}

func TestFamilyService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Creator info copied from the account", func(t *testing.T) {
		repo := new(MockFamilyRepo)
		users := new(MockUserRepo)
		svc := services.NewFamilyService(repo, users)

		users.On("GetByID", ctx, "u1").Return(testUser("u1", "m@example.com", "Margaret"), nil)
		repo.On("Create", ctx, mock.AnythingOfType("*domain.Family")).Return(nil)

		family, err := svc.Create(ctx, "u1", "The Smiths")

		require.Nil(t, err)
		assert.Equal(t, "u1", family.CreatorID)
		require.Len(t, family.Members, 1)
		assert.Equal(t, "m@example.com", family.Members[0].Email)
		assert.Equal(t, domain.FamilyRoleCreator, family.Members[0].Role)
	})

	t.Run("Error: Blank name", func(t *testing.T) {
		repo := new(MockFamilyRepo)
		users := new(MockUserRepo)
		svc := services.NewFamilyService(repo, users)

		users.On("GetByID", ctx, "u1").Return(testUser("u1", "m@example.com", "Margaret"), nil)

		_, err := svc.Create(ctx, "u1", "  ")

		assert.Equal(t, domain.ErrFamilyNameEmpty, err)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestFamilyService_Join(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Lowercase code with whitespace still matches", func(t *testing.T) {
		repo := new(MockFamilyRepo)
		users := new(MockUserRepo)
		svc := services.NewFamilyService(repo, users)

		family, _ := domain.NewFamily("u1", "m@example.com", "Margaret", "The Smiths")
		repo.On("GetByInviteCode", ctx, family.InviteCode).Return(family, nil)
		users.On("GetByID", ctx, "u2").Return(testUser("u2", "d@example.com", "David"), nil)
		repo.On("UpdateMembers", ctx, family).Return(nil)

		// lowercase and padded, as a phone keyboard produces
		joined, err := svc.Join(ctx, "u2", "  "+strings.ToLower(family.InviteCode)+" ")

		require.Nil(t, err)
		assert.True(t, joined.HasMember("u2"))
		repo.AssertExpectations(t)
	})

	t.Run("Error: Unknown code maps to ErrInvalidInviteCode", func(t *testing.T) {
		repo := new(MockFamilyRepo)
		users := new(MockUserRepo)
		svc := services.NewFamilyService(repo, users)

		repo.On("GetByInviteCode", ctx, "ZZZZZZ").Return(nil, domain.ErrFamilyNotFound)

		_, err := svc.Join(ctx, "u2", "zzzzzz")

		assert.Equal(t, domain.ErrInvalidInviteCode, err)
	})

	t.Run("Error: Blank code never hits storage", func(t *testing.T) {
		repo := new(MockFamilyRepo)
		svc := services.NewFamilyService(repo, new(MockUserRepo))

		_, err := svc.Join(ctx, "u2", "   ")

		assert.Equal(t, domain.ErrInvalidInviteCode, err)
		repo.AssertNotCalled(t, "GetByInviteCode", mock.Anything, mock.Anything)
	})

	t.Run("Error: Joining twice", func(t *testing.T) {
		repo := new(MockFamilyRepo)
		users := new(MockUserRepo)
		svc := services.NewFamilyService(repo, users)

		family, _ := domain.NewFamily("u1", "m@example.com", "Margaret", "The Smiths")
		_ = family.AddMember("u2", "d@example.com", "David")

		repo.On("GetByInviteCode", ctx, family.InviteCode).Return(family, nil)
		users.On("GetByID", ctx, "u2").Return(testUser("u2", "d@example.com", "David"), nil)

		_, err := svc.Join(ctx, "u2", family.InviteCode)

		assert.Equal(t, domain.ErrAlreadyMember, err)
		repo.AssertNotCalled(t, "UpdateMembers", mock.Anything, mock.Anything)
	})
}

func TestFamilyService_Leave(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Member removed and persisted", func(t *testing.T) {
		repo := new(MockFamilyRepo)
		svc := services.NewFamilyService(repo, new(MockUserRepo))

		family, _ := domain.NewFamily("u1", "m@example.com", "Margaret", "The Smiths")
		_ = family.AddMember("u2", "d@example.com", "David")

		repo.On("GetByMemberID", ctx, "u2").Return(family, nil)
		repo.On("UpdateMembers", ctx, family).Return(nil)

		assert.Nil(t, svc.Leave(ctx, "u2"))
		assert.False(t, family.HasMember("u2"))
	})

	t.Run("Error: Not in any family", func(t *testing.T) {
		repo := new(MockFamilyRepo)
		svc := services.NewFamilyService(repo, new(MockUserRepo))

		repo.On("GetByMemberID", ctx, "loner").Return(nil, domain.ErrFamilyNotFound)

		assert.Equal(t, domain.ErrFamilyNotFound, svc.Leave(ctx, "loner"))
	})
}

func TestProfileService(t *testing.T) {
	ctx := context.Background()

	t.Run("Save: Email always comes from the account", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		users := new(MockUserRepo)
		svc := services.NewProfileService(profiles, users)

		users.On("GetByID", ctx, "u1").Return(testUser("u1", "m@example.com", "Margaret"), nil)
		profiles.On("Save", ctx, mock.AnythingOfType("*domain.UserProfile")).Return(nil)

		profile, err := svc.Save(ctx, "u1", "Granny M", domain.Preferences{
			WaterGoalOz: 80,
			StepGoal:    6000,
			ShareWins:   true,
		})

		require.Nil(t, err)
		assert.Equal(t, "m@example.com", profile.Email)
		assert.Equal(t, "Granny M", profile.DisplayName)
		assert.Equal(t, 80.0, profile.Preferences.WaterGoalOz)
	})

	t.Run("Save: Empty display name falls back to the account name", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		users := new(MockUserRepo)
		svc := services.NewProfileService(profiles, users)

		users.On("GetByID", ctx, "u1").Return(testUser("u1", "m@example.com", "Margaret"), nil)
		profiles.On("Save", ctx, mock.Anything).Return(nil)

		profile, err := svc.Save(ctx, "u1", "", domain.Preferences{})

		require.Nil(t, err)
		assert.Equal(t, "Margaret", profile.DisplayName)
	})

	t.Run("Get: Not found before onboarding", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		svc := services.NewProfileService(profiles, new(MockUserRepo))

		profiles.On("GetByUserID", ctx, "u1").Return(nil, domain.ErrProfileNotFound)

		_, err := svc.Get(ctx, "u1")

		assert.Equal(t, domain.ErrProfileNotFound, err)
	})
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Save(ctx context.Context, profile *domain.UserProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}
