package service

import (
	"context"
	"errors"
	"fmt"

	"orgdir_backend/internal/authz"
	"orgdir_backend/internal/events"
	"orgdir_backend/internal/orgs/repository"
	"orgdir_backend/platform/apperr"
	"orgdir_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	msgAuthFailed   = "Authentication failed"
	msgOrgNotFound  = "Organisation not found"
	msgUserNotFound = "User not found"
	msgOrgForbidden = "You do not have permission to access this organisation's data."
)

// ErrUnknownUser is returned by UserDirectory lookups for absent users.
var ErrUnknownUser = errors.New("unknown user")

// Member is the minimal user projection this context needs.
type Member struct {
	ID        uuid.UUID
	FirstName string
	Staff     bool
	Superuser bool
}

// UserDirectory looks up users from the accounts context.
type UserDirectory interface {
	GetMember(ctx context.Context, userID uuid.UUID) (Member, error)
}

// DefaultName computes an organisation name from its creator's first name.
// Client-supplied names are ignored; naming is always server-side.
func DefaultName(firstName string) string {
	return fmt.Sprintf("%s's Organisation", firstName)
}

// Service implements the organisation membership flow.
type Service struct {
	repo repository.Repository
	dir  UserDirectory
	bus  events.Bus
	log  *logger.Logger
}

// New creates the organisations service.
func New(repo repository.Repository, dir UserDirectory, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, dir: dir, bus: bus, log: log}
}

// List returns every organisation. The listing is global by contract; only
// the detail lookup is membership-scoped.
func (s *Service) List(ctx context.Context) ([]repository.Organisation, error) {
	orgs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list organisations", err).WithOp("orgs.List")
	}
	return orgs, nil
}

// Create creates an organisation named after the requester, with the
// requester as sole initial member.
func (s *Service) Create(ctx context.Context, requesterID uuid.UUID, description string) (repository.Organisation, error) {
	member, err := s.dir.GetMember(ctx, requesterID)
	if err != nil {
		return repository.Organisation{}, apperr.Unauthorized(msgAuthFailed)
	}

	org, err := s.repo.CreateWithMember(ctx, DefaultName(member.FirstName), description, requesterID)
	if err != nil {
		return repository.Organisation{}, apperr.Wrap(apperr.KindInternal, "failed to create organisation", err).WithOp("orgs.Create")
	}

	s.bus.Publish(ctx, events.OrganisationCreated{
		BaseEvent: events.NewBaseEvent(),
		OrgID:     org.ID,
		Name:      org.Name,
		CreatedBy: requesterID,
	})

	return org, nil
}

// Get returns the organisation if the requester is a member of it.
// Membership is re-read on every call.
func (s *Service) Get(ctx context.Context, requesterID, orgID uuid.UUID) (repository.Organisation, error) {
	member, err := s.dir.GetMember(ctx, requesterID)
	if err != nil {
		return repository.Organisation{}, apperr.Unauthorized(msgAuthFailed)
	}

	org, err := s.repo.GetByID(ctx, orgID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Organisation{}, apperr.NotFound(msgOrgNotFound)
	}
	if err != nil {
		return repository.Organisation{}, apperr.Wrap(apperr.KindInternal, msgOrgNotFound, err).WithOp("orgs.Get")
	}

	isMember, err := s.repo.IsMember(ctx, orgID, requesterID)
	if err != nil {
		return repository.Organisation{}, apperr.Wrap(apperr.KindInternal, msgOrgNotFound, err).WithOp("orgs.Get")
	}

	principal := authz.Principal{UserID: member.ID, Staff: member.Staff, Superuser: member.Superuser}
	if !authz.CanViewOrganisation(principal, isMember) {
		s.log.AccessDenied(requesterID.String(), "organisation", orgID.String())
		return repository.Organisation{}, apperr.Forbidden(msgOrgForbidden)
	}

	return org, nil
}

// AddMember adds the target user to the organisation. Any authenticated
// requester may do this, member or not; re-adding an existing member is a
// no-op.
func (s *Service) AddMember(ctx context.Context, requesterID, orgID, targetUserID uuid.UUID) error {
	if _, err := s.dir.GetMember(ctx, requesterID); err != nil {
		return apperr.Unauthorized(msgAuthFailed)
	}

	if _, err := s.repo.GetByID(ctx, orgID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgOrgNotFound)
		}
		return apperr.Wrap(apperr.KindInternal, msgOrgNotFound, err).WithOp("orgs.AddMember")
	}

	if _, err := s.dir.GetMember(ctx, targetUserID); err != nil {
		if errors.Is(err, ErrUnknownUser) {
			return apperr.NotFound(msgUserNotFound)
		}
		return apperr.Wrap(apperr.KindInternal, msgUserNotFound, err).WithOp("orgs.AddMember")
	}

	if err := s.repo.AddMember(ctx, orgID, targetUserID); err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to add member", err).WithOp("orgs.AddMember")
	}

	s.bus.Publish(ctx, events.MemberAdded{
		BaseEvent: events.NewBaseEvent(),
		OrgID:     orgID,
		UserID:    targetUserID,
		AddedBy:   requesterID,
	})

	return nil
}
