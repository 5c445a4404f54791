package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const userColumns = `id, first_name, last_name, email, phone, password_hash, is_staff, is_superuser, created_at, updated_at`

// PostgresRepository implements Repository on a pgx connection pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// New creates a new PostgresRepository.
func New(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.IsStaff,
		&user.IsSuperuser,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

// CreateUserWithOrganisation inserts the user, their default organisation and
// the membership link atomically. The unique index on email aborts the whole
// transaction on a duplicate, so a lost registration race never leaves an
// organisation without members.
func (r *PostgresRepository) CreateUserWithOrganisation(ctx context.Context, params CreateUserParams, orgName string) (User, uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return User{}, uuid.UUID{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var user User
	user, err = scanUser(tx.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, phone, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns+`
	`, params.FirstName, params.LastName, params.Email, params.Phone, params.PasswordHash))
	if err != nil {
		if isUniqueViolation(err) {
			err = ErrEmailTaken
		}
		return User{}, uuid.UUID{}, err
	}

	var orgID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO organisations (name)
		VALUES ($1)
		RETURNING id
	`, orgName).Scan(&orgID)
	if err != nil {
		return User{}, uuid.UUID{}, err
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO organisation_members (organisation_id, user_id)
		VALUES ($1, $2)
	`, orgID, user.ID); err != nil {
		return User{}, uuid.UUID{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return User{}, uuid.UUID{}, err
	}

	return user, orgID, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

func (r *PostgresRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) Update(ctx context.Context, params UpdateUserParams) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `
		UPDATE users SET
			first_name   = COALESCE($2, first_name),
			last_name    = COALESCE($3, last_name),
			email        = COALESCE($4, email),
			phone        = COALESCE($5, phone),
			is_staff     = COALESCE($6, is_staff),
			is_superuser = COALESCE($7, is_superuser),
			updated_at   = now()
		WHERE id = $1
		RETURNING `+userColumns+`
	`, params.ID, params.FirstName, params.LastName, params.Email, params.Phone, params.IsStaff, params.IsSuperuser))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return User{}, ErrEmailTaken
	}
	return user, err
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ShareOrganisation re-reads current membership on every call; authorization
// decisions never act on cached state.
func (r *PostgresRepository) ShareOrganisation(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var shared bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM organisation_members ma
			JOIN organisation_members mb ON mb.organisation_id = ma.organisation_id
			WHERE ma.user_id = $1 AND mb.user_id = $2
		)
	`, a, b).Scan(&shared)
	return shared, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ Repository = (*PostgresRepository)(nil)
