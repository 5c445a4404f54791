package service

import (
	"context"
	"errors"
	"time"

	"orgdir_backend/internal/accounts/password"
	"orgdir_backend/internal/accounts/repository"
	"orgdir_backend/internal/authz"
	"orgdir_backend/internal/events"
	orgsservice "orgdir_backend/internal/orgs/service"
	"orgdir_backend/platform/apperr"
	"orgdir_backend/platform/config"
	"orgdir_backend/platform/logger"
	"orgdir_backend/platform/phone"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType = "access"

	msgAuthFailed     = "Authentication failed"
	msgRegisterFailed = "Registration unsuccessful"
	msgUserNotFound   = "User not found"
	msgUserForbidden  = "You do not have permission to access this user's record."
	msgAdminOnly      = "You do not have permission to perform this action."
)

// Service implements the registration/login flow and user record access.
type Service struct {
	repo repository.Repository
	cfg  config.AuthServiceConfig
	bus  events.Bus
	log  *logger.Logger
}

// New creates the accounts service.
func New(repo repository.Repository, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus, log: log}
}

// RegisterParams carries validated registration input. Field presence is
// checked at the transport boundary; the service assumes non-empty
// firstName, lastName, email and password.
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string
}

// Register creates the user, their default organisation and the membership
// link atomically, then issues an access token. The returned user record is
// projected into a redacted view by the transport layer.
func (s *Service) Register(ctx context.Context, p RegisterParams) (string, repository.User, error) {
	hash, err := password.Hash(p.Password)
	if err != nil {
		return "", repository.User{}, apperr.Wrap(apperr.KindInternal, msgRegisterFailed, err).WithOp("accounts.Register")
	}

	var phonePtr *string
	if p.Phone != "" {
		normalized := phone.NormalizeE164(p.Phone)
		phonePtr = &normalized
	}

	user, orgID, err := s.repo.CreateUserWithOrganisation(ctx, repository.CreateUserParams{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Email:        p.Email,
		Phone:        phonePtr,
		PasswordHash: hash,
	}, orgsservice.DefaultName(p.FirstName))
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			s.log.AuthEvent("register", p.Email, false, "duplicate email")
			return "", repository.User{}, apperr.Conflict(msgRegisterFailed)
		}
		return "", repository.User{}, apperr.Wrap(apperr.KindInternal, msgRegisterFailed, err).WithOp("accounts.Register")
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", repository.User{}, apperr.Wrap(apperr.KindInternal, msgRegisterFailed, err).WithOp("accounts.Register")
	}

	s.log.AuthEvent("register", user.Email, true, "")
	s.bus.Publish(ctx, events.UserRegistered{
		BaseEvent:        events.NewBaseEvent(),
		UserID:           user.ID,
		Email:            user.Email,
		FirstName:        user.FirstName,
		OrganisationName: orgsservice.DefaultName(user.FirstName),
	})
	s.bus.Publish(ctx, events.OrganisationCreated{
		BaseEvent: events.NewBaseEvent(),
		OrgID:     orgID,
		Name:      orgsservice.DefaultName(user.FirstName),
		CreatedBy: user.ID,
	})

	return token, user, nil
}

// Login verifies the credentials and issues a fresh access token. Unknown
// email and wrong password produce the same error so callers cannot
// enumerate accounts.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (string, repository.User, error) {
	if email == "" || plainPassword == "" {
		return "", repository.User{}, apperr.Unauthorized(msgAuthFailed)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.log.AuthEvent("login", email, false, "unknown email")
		return "", repository.User{}, apperr.Unauthorized(msgAuthFailed)
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", email, false, "bad password")
		return "", repository.User{}, apperr.Unauthorized(msgAuthFailed)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", repository.User{}, apperr.Wrap(apperr.KindInternal, msgAuthFailed, err).WithOp("accounts.Login")
	}

	s.log.AuthEvent("login", email, true, "")
	return token, user, nil
}

// GetUser returns the target user's record if the requester may view it:
// themselves, staff/superuser, or a co-member of a shared organisation.
// Membership is re-read on every call.
func (s *Service) GetUser(ctx context.Context, requesterID, targetID uuid.UUID) (repository.User, error) {
	requester, err := s.repo.GetByID(ctx, requesterID)
	if err != nil {
		return repository.User{}, apperr.Unauthorized(msgAuthFailed)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.User{}, apperr.NotFound(msgUserNotFound)
		}
		return repository.User{}, apperr.Wrap(apperr.KindInternal, msgUserNotFound, err).WithOp("accounts.GetUser")
	}

	coMember, err := s.repo.ShareOrganisation(ctx, requesterID, targetID)
	if err != nil {
		return repository.User{}, apperr.Wrap(apperr.KindInternal, msgUserNotFound, err).WithOp("accounts.GetUser")
	}

	principal := authz.Principal{UserID: requester.ID, Staff: requester.IsStaff, Superuser: requester.IsSuperuser}
	if !authz.CanViewUser(principal, target.ID, coMember) {
		s.log.AccessDenied(requesterID.String(), "user", targetID.String())
		return repository.User{}, apperr.Forbidden(msgUserForbidden)
	}

	return target, nil
}

// ListUsers returns every user record. Staff/superuser only.
func (s *Service) ListUsers(ctx context.Context, requesterID uuid.UUID) ([]repository.User, error) {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return nil, err
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list users", err).WithOp("accounts.ListUsers")
	}
	return users, nil
}

// AdminGetUser returns any user's record without membership scoping.
// Staff/superuser only.
func (s *Service) AdminGetUser(ctx context.Context, requesterID, targetID uuid.UUID) (repository.User, error) {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return repository.User{}, err
	}
	user, err := s.repo.GetByID(ctx, targetID)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.User{}, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return repository.User{}, apperr.Wrap(apperr.KindInternal, msgUserNotFound, err).WithOp("accounts.AdminGetUser")
	}
	return user, nil
}

// AdminUpdateUser updates any user's record. Staff/superuser only. Email
// uniqueness is still enforced.
func (s *Service) AdminUpdateUser(ctx context.Context, requesterID uuid.UUID, params repository.UpdateUserParams) (repository.User, error) {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return repository.User{}, err
	}

	user, err := s.repo.Update(ctx, params)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return repository.User{}, apperr.NotFound(msgUserNotFound)
	case errors.Is(err, repository.ErrEmailTaken):
		return repository.User{}, apperr.Conflict("Email already in use")
	case err != nil:
		return repository.User{}, apperr.Wrap(apperr.KindInternal, "failed to update user", err).WithOp("accounts.AdminUpdateUser")
	}
	return user, nil
}

// AdminDeleteUser removes a user record. Staff/superuser only.
func (s *Service) AdminDeleteUser(ctx context.Context, requesterID, targetID uuid.UUID) error {
	if err := s.requireAdmin(ctx, requesterID); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, targetID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to delete user", err).WithOp("accounts.AdminDeleteUser")
	}
	return nil
}

func (s *Service) requireAdmin(ctx context.Context, requesterID uuid.UUID) error {
	requester, err := s.repo.GetByID(ctx, requesterID)
	if err != nil {
		return apperr.Unauthorized(msgAuthFailed)
	}
	principal := authz.Principal{UserID: requester.ID, Staff: requester.IsStaff, Superuser: requester.IsSuperuser}
	if !principal.IsAdmin() {
		s.log.AccessDenied(requesterID.String(), "admin", "users")
		return apperr.Forbidden(msgAdminOnly)
	}
	return nil
}

func (s *Service) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": accessTokenType,
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":  now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
