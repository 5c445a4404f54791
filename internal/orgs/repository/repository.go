package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orgColumns = `id, name, description, created_at, updated_at`

// PostgresRepository implements Repository on a pgx connection pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// New creates a new PostgresRepository.
func New(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanOrganisation(row pgx.Row) (Organisation, error) {
	var org Organisation
	err := row.Scan(&org.ID, &org.Name, &org.Description, &org.CreatedAt, &org.UpdatedAt)
	return org, err
}

func (r *PostgresRepository) List(ctx context.Context) ([]Organisation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orgColumns+` FROM organisations ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := make([]Organisation, 0)
	for rows.Next() {
		org, err := scanOrganisation(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (Organisation, error) {
	org, err := scanOrganisation(r.pool.QueryRow(ctx, `
		SELECT `+orgColumns+` FROM organisations WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Organisation{}, ErrNotFound
	}
	return org, err
}

func (r *PostgresRepository) CreateWithMember(ctx context.Context, name, description string, creator uuid.UUID) (Organisation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Organisation{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var org Organisation
	org, err = scanOrganisation(tx.QueryRow(ctx, `
		INSERT INTO organisations (name, description)
		VALUES ($1, $2)
		RETURNING `+orgColumns+`
	`, name, description))
	if err != nil {
		return Organisation{}, err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO organisation_members (organisation_id, user_id)
		VALUES ($1, $2)
	`, org.ID, creator); err != nil {
		return Organisation{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return Organisation{}, err
	}

	return org, nil
}

// AddMember is idempotent: re-adding an existing member changes nothing.
func (r *PostgresRepository) AddMember(ctx context.Context, orgID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO organisation_members (organisation_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (organisation_id, user_id) DO NOTHING
	`, orgID, userID)
	return err
}

func (r *PostgresRepository) IsMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	var member bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM organisation_members
			WHERE organisation_id = $1 AND user_id = $2
		)
	`, orgID, userID).Scan(&member)
	return member, err
}

var _ Repository = (*PostgresRepository)(nil)
