package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when the unique email constraint is violated.
	ErrEmailTaken = errors.New("email already registered")
)

// User is the stored user record. PasswordHash never leaves the service
// layer; views are built from the other fields only.
type User struct {
	ID           uuid.UUID
	FirstName    string
	LastName     string
	Email        string
	Phone        *string
	PasswordHash string
	IsStaff      bool
	IsSuperuser  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserParams contains data for creating a user.
type CreateUserParams struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        *string
	PasswordHash string
}

// UpdateUserParams contains data for an admin user update. Nil fields are
// left unchanged.
type UpdateUserParams struct {
	ID          uuid.UUID
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	IsStaff     *bool
	IsSuperuser *bool
}

// Repository is the persistence boundary for user records and the membership
// facts the authorizer needs.
type Repository interface {
	// CreateUserWithOrganisation inserts the user, their default organisation
	// and the membership link in one transaction. A duplicate email aborts
	// the whole transaction with ErrEmailTaken, leaving no orphaned
	// organisation behind.
	CreateUserWithOrganisation(ctx context.Context, params CreateUserParams, orgName string) (User, uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, params UpdateUserParams) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ShareOrganisation reports whether the two users are currently members
	// of at least one common organisation.
	ShareOrganisation(ctx context.Context, a, b uuid.UUID) (bool, error)
}
