// Package accounts provides the user accounts bounded context module.
// This file defines the module that encapsulates setup and route registration.
package accounts

import (
	"orgdir_backend/internal/accounts/handler"
	"orgdir_backend/internal/accounts/repository"
	"orgdir_backend/internal/accounts/service"
	"orgdir_backend/internal/events"
	apphttp "orgdir_backend/internal/http"
	"orgdir_backend/platform/config"
	"orgdir_backend/platform/logger"
	"orgdir_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the accounts bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the accounts module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "accounts"
}

// Directory returns the public read surface for other domains.
func (m *Module) Directory() Directory {
	return &directory{repo: m.repo}
}

// RegisterRoutes mounts accounts routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.Public.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterAuthRoutes(authGroup)

	// Record access, membership-scoped in the service
	ctx.Protected.GET("/users/:userId", m.handler.GetUser)

	// Admin CRUD, staff-gated in the service
	admin := ctx.Protected.Group("/admin")
	admin.GET("/users", m.handler.ListUsers)
	admin.GET("/users/:userId", m.handler.AdminGetUser)
	admin.PUT("/users/:userId", m.handler.AdminUpdateUser)
	admin.DELETE("/users/:userId", m.handler.AdminDeleteUser)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
