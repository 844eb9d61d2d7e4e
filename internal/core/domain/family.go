package domain

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrFamilyNotFound    = errors.New("family not found")
	ErrInvalidInviteCode = errors.New("invalid invite code")
	ErrAlreadyMember     = errors.New("user is already a member of this family")
	ErrNotAMember        = errors.New("user is not a member of this family")
	ErrFamilyNameEmpty   = errors.New("family name cannot be empty")
)

const inviteCodeLen = 6

const inviteCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	FamilyRoleCreator = "creator"
	FamilyRoleMember  = "member"
)

type FamilyMember struct {
	UserID      string    `json:"user_id" db:"user_id"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Role        string    `json:"role" db:"role"`
	JoinedAt    time.Time `json:"joined_at" db:"joined_at"`
}

// Family groups users who share each other's daily wins. Invite codes are
// short so they can be read over the phone.
type Family struct {
	ID         string         `json:"id" db:"id"`
	Name       string         `json:"name" db:"name"`
	CreatorID  string         `json:"creator_id" db:"creator_id"`
	InviteCode string         `json:"invite_code" db:"invite_code"`
	Members    []FamilyMember `json:"members"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

type FamilyRepository interface {
	Create(ctx context.Context, family *Family) error

	GetByID(ctx context.Context, id string) (*Family, error)

	// GetByInviteCode returns ErrFamilyNotFound for unknown codes.
	GetByInviteCode(ctx context.Context, code string) (*Family, error)

	// GetByMemberID finds the family a user belongs to, if any.
	GetByMemberID(ctx context.Context, userID string) (*Family, error)

	// UpdateMembers replaces the membership list in one shot.
	UpdateMembers(ctx context.Context, family *Family) error
}

func NewFamily(creatorID, creatorEmail, creatorName, familyName string) (*Family, error) {
	if creatorID == "" {
		return nil, ErrActivityInvalidUserID
	}

	familyName = strings.TrimSpace(familyName)
	if familyName == "" {
		return nil, ErrFamilyNameEmpty
	}

	now := time.Now().UTC()
	return &Family{
		ID:         uuid.NewString(),
		Name:       familyName,
		CreatorID:  creatorID,
		InviteCode: generateInviteCode(),
		Members: []FamilyMember{{
			UserID:      creatorID,
			Email:       creatorEmail,
			DisplayName: creatorName,
			Role:        FamilyRoleCreator,
			JoinedAt:    now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (f *Family) AddMember(userID, email, displayName string) error {
	if f.HasMember(userID) {
		return ErrAlreadyMember
	}

	now := time.Now().UTC()
	f.Members = append(f.Members, FamilyMember{
		UserID:      userID,
		Email:       email,
		DisplayName: displayName,
		Role:        FamilyRoleMember,
		JoinedAt:    now,
	})
	f.UpdatedAt = now
	return nil
}

func (f *Family) RemoveMember(userID string) error {
	if !f.HasMember(userID) {
		return ErrNotAMember
	}

	kept := f.Members[:0]
	for _, m := range f.Members {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	f.Members = kept
	f.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *Family) HasMember(userID string) bool {
	for _, m := range f.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

func generateInviteCode() string {
	code := make([]byte, inviteCodeLen)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(inviteCodeChars))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// fall back to the first character rather than panic.
			code[i] = inviteCodeChars[0]
			continue
		}
		code[i] = inviteCodeChars[n.Int64()]
	}
	return string(code)
}
