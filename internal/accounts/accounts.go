// Package accounts provides the user accounts bounded context API.
package accounts

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUnknownUser is returned by Directory lookups for absent users.
var ErrUnknownUser = errors.New("unknown user")

// Member is the minimal user projection other domains depend on.
type Member struct {
	ID        uuid.UUID
	FirstName string
	Staff     bool
	Superuser bool
}

// Directory is the public read surface of the accounts context. Other
// domains depend on this interface, not on concrete implementations.
type Directory interface {
	// GetMember returns the user's minimal projection, or ErrUnknownUser.
	GetMember(ctx context.Context, userID uuid.UUID) (Member, error)
}
