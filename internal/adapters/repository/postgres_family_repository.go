package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/atherahq/athera-care-api/internal/core/domain"
)

// PostgresFamilyRepository stores families over two tables, families and
// family_members, and reassembles the membership slice on every read.
type PostgresFamilyRepository struct {
	db *sqlx.DB
}

func NewPostgresFamilyRepository(db *sqlx.DB) *PostgresFamilyRepository {
	return &PostgresFamilyRepository{db: db}
}

type familyRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	CreatorID  string    `db:"creator_id"`
	InviteCode string    `db:"invite_code"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *PostgresFamilyRepository) Create(ctx context.Context, family *domain.Family) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO families (id, name, creator_id, invite_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = tx.ExecContext(ctx, query,
		family.ID, family.Name, family.CreatorID, family.InviteCode,
		family.CreatedAt, family.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("invite code collision for family %s: %w", family.ID, err)
		}
		return err
	}

	if err := insertMembers(ctx, tx, family.ID, family.Members); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresFamilyRepository) GetByID(ctx context.Context, id string) (*domain.Family, error) {
	var row familyRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM families WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFamilyNotFound
		}
		return nil, err
	}
	return r.assemble(ctx, row)
}

func (r *PostgresFamilyRepository) GetByInviteCode(ctx context.Context, code string) (*domain.Family, error) {
	var row familyRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM families WHERE invite_code = $1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFamilyNotFound
		}
		return nil, err
	}
	return r.assemble(ctx, row)
}

func (r *PostgresFamilyRepository) GetByMemberID(ctx context.Context, userID string) (*domain.Family, error) {
	var row familyRow
	query := `
		SELECT f.* FROM families f
		JOIN family_members m ON m.family_id = f.id
		WHERE m.user_id = $1
		LIMIT 1`

	err := r.db.GetContext(ctx, &row, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFamilyNotFound
		}
		return nil, err
	}
	return r.assemble(ctx, row)
}

func (r *PostgresFamilyRepository) UpdateMembers(ctx context.Context, family *domain.Family) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM family_members WHERE family_id = $1`, family.ID); err != nil {
		return err
	}

	if err := insertMembers(ctx, tx, family.ID, family.Members); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE families SET updated_at = $1 WHERE id = $2`,
		family.UpdatedAt, family.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrFamilyNotFound
	}

	return tx.Commit()
}

func (r *PostgresFamilyRepository) assemble(ctx context.Context, row familyRow) (*domain.Family, error) {
	members := []domain.FamilyMember{}

	query := `
		SELECT user_id, email, display_name, role, joined_at
		FROM family_members
		WHERE family_id = $1
		ORDER BY joined_at ASC`

	if err := r.db.SelectContext(ctx, &members, query, row.ID); err != nil {
		return nil, err
	}

	return &domain.Family{
		ID:         row.ID,
		Name:       row.Name,
		CreatorID:  row.CreatorID,
		InviteCode: row.InviteCode,
		Members:    members,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

func insertMembers(ctx context.Context, tx *sqlx.Tx, familyID string, members []domain.FamilyMember) error {
	query := `
		INSERT INTO family_members (family_id, user_id, email, display_name, role, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, m := range members {
		if _, err := tx.ExecContext(ctx, query,
			familyID, m.UserID, m.Email, m.DisplayName, m.Role, m.JoinedAt,
		); err != nil {
			return err
		}
	}
	return nil
}
