package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

type PostgresHydrationRepository struct {
	db *sqlx.DB
}

func NewPostgresHydrationRepository(db *sqlx.DB) *PostgresHydrationRepository {
	return &PostgresHydrationRepository{db: db}
}

func (r *PostgresHydrationRepository) Create(ctx context.Context, log *domain.HydrationLog) error {
	query := `
		INSERT INTO hydration_logs (id, user_id, date, total_oz, goal_oz, created_at, updated_at)
		VALUES (:id, :user_id, :date, :total_oz, :goal_oz, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, log)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// One log per (user, date); a duplicate insert means two first
			// pours raced. The caller re-reads and updates instead.
			return errors.New("hydration log already exists for this date")
		}
		return err
	}
	return nil
}

func (r *PostgresHydrationRepository) GetByDate(ctx context.Context, userID, date string) (*domain.HydrationLog, error) {
	var log domain.HydrationLog
	query := `SELECT * FROM hydration_logs WHERE user_id = $1 AND date = $2`

	err := r.db.GetContext(ctx, &log, query, userID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHydrationNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *PostgresHydrationRepository) Update(ctx context.Context, log *domain.HydrationLog) error {
	query := `
		UPDATE hydration_logs
		SET total_oz = :total_oz,
		    goal_oz = :goal_oz,
		    updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, log)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrHydrationNotFound
	}
	return nil
}
