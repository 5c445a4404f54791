package handler

import (
	"net/http"

	"orgdir_backend/internal/accounts/repository"
	"orgdir_backend/internal/accounts/service"
	"orgdir_backend/internal/accounts/transport"
	"orgdir_backend/platform/apperr"
	"orgdir_backend/platform/httpkit"
	"orgdir_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest = "invalid request"
	msgClientError    = "Client error"
)

// Handler exposes the accounts endpoints.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates the accounts handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterAuthRoutes mounts the public register/login endpoints.
func (h *Handler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req transport.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}

	fields := req.MissingFields()
	if req.Email != "" {
		if err := h.val.Var(req.Email, "email"); err != nil {
			fields = append(fields, apperr.FieldError{Field: "email", Message: "Enter a valid email address"})
		}
	}
	if len(fields) > 0 {
		httpkit.HandleError(c, apperr.Validation(msgClientError, fields...))
		return
	}

	token, user, err := h.svc.Register(c.Request.Context(), service.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, "Registration successful", transport.AuthData{
		AccessToken: token,
		User:        transport.NewUserView(user),
	})
}

// Login handles POST /auth/login. A malformed body fails authentication,
// not validation, so no account detail leaks through error shapes.
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Unauthorized("Authentication failed"))
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, "Login successful", transport.AuthData{
		AccessToken: token,
		User:        transport.NewUserView(user),
	})
}

// GetUser handles GET /users/:userId.
func (h *Handler) GetUser(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httpkit.HandleError(c, apperr.NotFound("User not found"))
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), identity.UserID(), targetID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, "User record retrieved successfully", transport.NewUserView(user))
}

// ListUsers handles GET /admin/users.
func (h *Handler) ListUsers(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	users, err := h.svc.ListUsers(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, "Users retrieved successfully", transport.NewUserViews(users))
}

// AdminGetUser handles GET /admin/users/:userId.
func (h *Handler) AdminGetUser(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httpkit.HandleError(c, apperr.NotFound("User not found"))
		return
	}

	user, err := h.svc.AdminGetUser(c.Request.Context(), identity.UserID(), targetID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, "User record retrieved successfully", transport.NewUserView(user))
}

// AdminUpdateUser handles PUT /admin/users/:userId.
func (h *Handler) AdminUpdateUser(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httpkit.HandleError(c, apperr.NotFound("User not found"))
		return
	}

	var req transport.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgClientError))
		return
	}

	user, err := h.svc.AdminUpdateUser(c.Request.Context(), identity.UserID(), repository.UpdateUserParams{
		ID:          targetID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, "User updated successfully", transport.NewUserView(user))
}

// AdminDeleteUser handles DELETE /admin/users/:userId.
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		httpkit.HandleError(c, apperr.NotFound("User not found"))
		return
	}

	if err := h.svc.AdminDeleteUser(c.Request.Context(), identity.UserID(), targetID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}
