package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an organisation does not exist.
var ErrNotFound = errors.New("not found")

// Organisation is the stored organisation record.
type Organisation struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repository is the persistence boundary for organisations and membership.
type Repository interface {
	// List returns every organisation. The listing is deliberately global;
	// only the detail lookup is membership-scoped.
	List(ctx context.Context) ([]Organisation, error)
	GetByID(ctx context.Context, id uuid.UUID) (Organisation, error)
	// CreateWithMember inserts the organisation and its creator's membership
	// link in one transaction, so an organisation never exists without at
	// least one member.
	CreateWithMember(ctx context.Context, name, description string, creator uuid.UUID) (Organisation, error)
	// AddMember links the user to the organisation. Adding an existing
	// member is a no-op.
	AddMember(ctx context.Context, orgID, userID uuid.UUID) error
	// IsMember re-reads current membership for authorization decisions.
	IsMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error)
}
