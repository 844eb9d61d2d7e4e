package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

type PostgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

type profileRow struct {
	UserID      string    `db:"user_id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	Preferences []byte    `db:"preferences"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Save upserts keyed on user_id; preferences travel as one JSONB document
// because they are always read and written whole.
func (r *PostgresProfileRepository) Save(ctx context.Context, profile *domain.UserProfile) error {
	prefs, err := json.Marshal(profile.Preferences)
	if err != nil {
		return fmt.Errorf("repository: marshal preferences: %w", err)
	}

	query := `
		INSERT INTO user_profiles (user_id, email, display_name, preferences, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			preferences = EXCLUDED.preferences,
			updated_at = EXCLUDED.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		profile.UserID, profile.Email, profile.DisplayName, prefs,
		profile.CreatedAt, profile.UpdatedAt,
	)
	return err
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var row profileRow
	query := `SELECT * FROM user_profiles WHERE user_id = $1`

	err := r.db.GetContext(ctx, &row, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	profile := &domain.UserProfile{
		UserID:      row.UserID,
		Email:       row.Email,
		DisplayName: row.DisplayName,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if len(row.Preferences) > 0 {
		if err := json.Unmarshal(row.Preferences, &profile.Preferences); err != nil {
			return nil, fmt.Errorf("repository: unmarshal preferences: %w", err)
		}
	}
	return profile, nil
}
