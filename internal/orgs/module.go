// Package orgs provides the organisations bounded context module.
package orgs

import (
	"context"
	"errors"

	"orgdir_backend/internal/accounts"
	"orgdir_backend/internal/events"
	apphttp "orgdir_backend/internal/http"
	"orgdir_backend/internal/orgs/handler"
	"orgdir_backend/internal/orgs/repository"
	"orgdir_backend/internal/orgs/service"
	"orgdir_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// directoryAdapter bridges the accounts Directory into the shape this
// context's service consumes.
type directoryAdapter struct {
	dir accounts.Directory
}

func (a directoryAdapter) GetMember(ctx context.Context, userID uuid.UUID) (service.Member, error) {
	m, err := a.dir.GetMember(ctx, userID)
	if err != nil {
		if errors.Is(err, accounts.ErrUnknownUser) {
			return service.Member{}, service.ErrUnknownUser
		}
		return service.Member{}, err
	}
	return service.Member{
		ID:        m.ID,
		FirstName: m.FirstName,
		Staff:     m.Staff,
		Superuser: m.Superuser,
	}, nil
}

// Module is the organisations bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the organisations module with all its dependencies.
func NewModule(pool *pgxpool.Pool, dir accounts.Directory, bus events.Bus, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, directoryAdapter{dir: dir}, bus, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orgs"
}

// RegisterRoutes mounts organisation routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// The listing is public; everything else requires authentication.
	ctx.Public.GET("/organisations", m.handler.List)

	protected := ctx.Protected.Group("/organisations")
	protected.POST("", m.handler.Create)
	protected.GET("/:orgId", m.handler.Get)
	protected.POST("/:orgId/users", m.handler.AddMember)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
