package repository

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atherahq/athera-care-api/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		dbUser = "athera_user"
	}
	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		dbPass = "secret"
	}
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		dbHost = "localhost"
	}
	dbPort := os.Getenv("DB_PORT")
	if dbPort == "" {
		dbPort = "5432"
	}
	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		dbName = "athera_db"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}
	return db
}

func cleanup(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec(`TRUNCATE TABLE
		daily_activities, hydration_logs, medications,
		family_members, families, user_profiles, users CASCADE`)
	require.NoError(t, err, "Failed to clean up database")
}

func createTestUser(t *testing.T, db *sqlx.DB) *domain.User {
	t.Helper()

	repo := NewPostgresUserRepository(db)
	user, err := domain.NewUser(uuid.NewString(), fmt.Sprintf("test_%s@example.com", uuid.NewString()), "Test User")
	require.NoError(t, err)
	require.NoError(t, user.SetPassword("passwordStrong123"))
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestPostgresActivityRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	repo := NewPostgresActivityRepository(db)
	ctx := context.Background()
	user := createTestUser(t, db)

	t.Run("GetByDate: Not found before any write", func(t *testing.T) {
		_, err := repo.GetByDate(ctx, user.ID, "2026-03-15")
		assert.Equal(t, domain.ErrActivityNotFound, err)
	})

	t.Run("Upsert: Insert then read back", func(t *testing.T) {
		activity, err := domain.NewDailyActivity(user.ID, "2026-03-15")
		require.NoError(t, err)
		require.NoError(t, activity.SetMedications(3, 2, 1))
		require.NoError(t, activity.SetWater(48, 64, 2))
		mood := 4
		require.NoError(t, activity.SetMoodEnergy(&mood, nil))

		require.NoError(t, repo.Upsert(ctx, activity))

		saved, err := repo.GetByDate(ctx, user.ID, "2026-03-15")
		require.NoError(t, err)
		assert.Equal(t, 3, saved.Medications.Total)
		assert.Equal(t, 1, saved.Medications.Missed)
		assert.Equal(t, 48.0, saved.Water.TotalOz)
		assert.InDelta(t, 75.0, saved.Water.Percentage, 0.0001)
		require.NotNil(t, saved.Mood)
		assert.Equal(t, 4, *saved.Mood)
		assert.Nil(t, saved.Energy, "Untracked energy must round-trip as NULL")
	})

	t.Run("Upsert: Second write same day updates in place", func(t *testing.T) {
		activity, _ := domain.NewDailyActivity(user.ID, "2026-03-16")
		require.NoError(t, activity.SetSteps(2000, 10000, 0))
		require.NoError(t, repo.Upsert(ctx, activity))

		require.NoError(t, activity.SetSteps(9000, 10000, 0))
		require.NoError(t, repo.Upsert(ctx, activity))

		saved, err := repo.GetByDate(ctx, user.ID, "2026-03-16")
		require.NoError(t, err)
		assert.Equal(t, 9000, saved.Steps.Count)

		var count int
		require.NoError(t, db.Get(&count,
			"SELECT COUNT(*) FROM daily_activities WHERE user_id = $1 AND date = $2", user.ID, "2026-03-16"))
		assert.Equal(t, 1, count, "Upsert must not create a second row for the same day")
	})

	t.Run("Upsert: Unknown user maps to ErrUserNotFound", func(t *testing.T) {
		activity, _ := domain.NewDailyActivity(uuid.NewString(), "2026-03-15")

		err := repo.Upsert(ctx, activity)

		assert.Equal(t, domain.ErrUserNotFound, err)
	})

	t.Run("ListByDateRange: Inclusive bounds, ascending order", func(t *testing.T) {
		for _, date := range []string{"2026-03-20", "2026-03-18", "2026-03-22"} {
			a, _ := domain.NewDailyActivity(user.ID, date)
			require.NoError(t, repo.Upsert(ctx, a))
		}

		activities, err := repo.ListByDateRange(ctx, user.ID, "2026-03-18", "2026-03-22")
		require.NoError(t, err)
		require.Len(t, activities, 3)
		assert.Equal(t, "2026-03-18", activities[0].Date)
		assert.Equal(t, "2026-03-20", activities[1].Date)
		assert.Equal(t, "2026-03-22", activities[2].Date)
	})

	t.Run("ListByDateRange: Empty window yields empty slice", func(t *testing.T) {
		activities, err := repo.ListByDateRange(ctx, user.ID, "2020-01-01", "2020-01-07")
		require.NoError(t, err)
		assert.Empty(t, activities)
	})

	t.Run("Isolation: Another user's records invisible", func(t *testing.T) {
		other := createTestUser(t, db)

		a, _ := domain.NewDailyActivity(other.ID, "2026-03-18")
		require.NoError(t, repo.Upsert(ctx, a))

		activities, err := repo.ListByDateRange(ctx, other.ID, "2026-03-01", "2026-03-31")
		require.NoError(t, err)
		require.Len(t, activities, 1)
		assert.Equal(t, other.ID, activities[0].UserID)
	})
}
