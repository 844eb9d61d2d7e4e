package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

type PostgresMedicationRepository struct {
	db *sqlx.DB
}

func NewPostgresMedicationRepository(db *sqlx.DB) *PostgresMedicationRepository {
	return &PostgresMedicationRepository{db: db}
}

type medicationRow struct {
	ID         string         `db:"id"`
	UserID     string         `db:"user_id"`
	Name       string         `db:"name"`
	Days       pq.StringArray `db:"days"`
	TakenToday bool           `db:"taken_today"`
	Active     bool           `db:"active"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (r medicationRow) toDomain() *domain.Medication {
	return &domain.Medication{
		ID:         r.ID,
		UserID:     r.UserID,
		Name:       r.Name,
		Days:       []string(r.Days),
		TakenToday: r.TakenToday,
		Active:     r.Active,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func (r *PostgresMedicationRepository) Create(ctx context.Context, med *domain.Medication) error {
	query := `
		INSERT INTO medications (id, user_id, name, days, taken_today, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		med.ID, med.UserID, med.Name, pq.StringArray(med.Days),
		med.TakenToday, med.Active, med.CreatedAt, med.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (r *PostgresMedicationRepository) GetByID(ctx context.Context, id string) (*domain.Medication, error) {
	var row medicationRow
	query := `SELECT * FROM medications WHERE id = $1`

	err := r.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMedicationNotFound
		}
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *PostgresMedicationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Medication, error) {
	rows := []medicationRow{}

	query := `
		SELECT * FROM medications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &rows, query, userID)
	if err != nil {
		return nil, err
	}

	meds := make([]*domain.Medication, 0, len(rows))
	for _, row := range rows {
		meds = append(meds, row.toDomain())
	}
	return meds, nil
}

func (r *PostgresMedicationRepository) Update(ctx context.Context, med *domain.Medication) error {
	query := `
		UPDATE medications
		SET name = $1,
		    days = $2,
		    taken_today = $3,
		    active = $4,
		    updated_at = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		med.Name, pq.StringArray(med.Days), med.TakenToday, med.Active, med.UpdatedAt, med.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMedicationNotFound
	}
	return nil
}

func (r *PostgresMedicationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMedicationNotFound
	}
	return nil
}

func (r *PostgresMedicationRepository) ResetTakenToday(ctx context.Context, userID string) error {
	query := `
		UPDATE medications
		SET taken_today = FALSE,
		    updated_at = $1
		WHERE user_id = $2
		  AND taken_today = TRUE`

	_, err := r.db.ExecContext(ctx, query, time.Now().UTC(), userID)
	return err
}
