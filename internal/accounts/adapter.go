package accounts

import (
	"context"
	"errors"

	"orgdir_backend/internal/accounts/repository"

	"github.com/google/uuid"
)

// directory implements Directory over the accounts repository.
type directory struct {
	repo repository.Repository
}

func (d *directory) GetMember(ctx context.Context, userID uuid.UUID) (Member, error) {
	user, err := d.repo.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return Member{}, ErrUnknownUser
	}
	if err != nil {
		return Member{}, err
	}
	return Member{
		ID:        user.ID,
		FirstName: user.FirstName,
		Staff:     user.IsStaff,
		Superuser: user.IsSuperuser,
	}, nil
}
