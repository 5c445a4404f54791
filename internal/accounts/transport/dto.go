package transport

import (
	"orgdir_backend/internal/accounts/repository"
	"orgdir_backend/platform/apperr"
)

// RegisterRequest is the registration payload. Required-field errors are
// collected into a per-field list rather than short-circuited, so the
// validate tags here only cover format checks.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

// MissingFields reports every absent required field as {field, message},
// in a stable order.
func (r RegisterRequest) MissingFields() []apperr.FieldError {
	var fields []apperr.FieldError
	if r.FirstName == "" {
		fields = append(fields, apperr.FieldError{Field: "firstName", Message: "First Name must not be null"})
	}
	if r.LastName == "" {
		fields = append(fields, apperr.FieldError{Field: "lastName", Message: "Last Name must not be null"})
	}
	if r.Email == "" {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "Email must not be null"})
	}
	if r.Password == "" {
		fields = append(fields, apperr.FieldError{Field: "password", Message: "Password must not be null"})
	}
	return fields
}

// LoginRequest is the login payload. Missing credentials fail
// authentication, not validation, so no required tags here either.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserView is the redacted user projection. It never carries the password
// credential.
type UserView struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// NewUserView projects a stored user record into its redacted view.
func NewUserView(u repository.User) UserView {
	view := UserView{
		UserID:    u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
	if u.Phone != nil {
		view.Phone = *u.Phone
	}
	return view
}

// NewUserViews projects a slice of user records.
func NewUserViews(users []repository.User) []UserView {
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, NewUserView(u))
	}
	return views
}

// AuthData is the success payload for register and login.
type AuthData struct {
	AccessToken string   `json:"accessToken"`
	User        UserView `json:"user"`
}

// AdminUpdateUserRequest is the admin user update payload. Nil fields are
// left unchanged.
type AdminUpdateUserRequest struct {
	FirstName   *string `json:"firstName" validate:"omitempty,min=1"`
	LastName    *string `json:"lastName" validate:"omitempty,min=1"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	IsStaff     *bool   `json:"isStaff"`
	IsSuperuser *bool   `json:"isSuperuser"`
}
