package handler

import (
	"orgdir_backend/internal/orgs/service"
	"orgdir_backend/internal/orgs/transport"
	"orgdir_backend/platform/apperr"
	"orgdir_backend/platform/httpkit"
	"orgdir_backend/platform/sanitize"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

// Handler exposes the organisation endpoints.
type Handler struct {
	svc *service.Service
}

// New creates the organisations handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /organisations. The listing is global; the detail
// lookup is where membership scoping applies.
func (h *Handler) List(c *gin.Context) {
	orgs, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, "Organisations retrieved successfully", transport.OrganisationListData{
		Organisations: transport.NewOrganisationViews(orgs),
	})
}

// Create handles POST /organisations.
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateOrganisationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}

	org, err := h.svc.Create(c.Request.Context(), identity.UserID(), sanitize.Text(req.Description))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, "Organisation created successfully", transport.NewOrganisationView(org))
}

// Get handles GET /organisations/:orgId.
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		httpkit.HandleError(c, apperr.NotFound("Organisation not found"))
		return
	}

	org, err := h.svc.Get(c.Request.Context(), identity.UserID(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, "Organisation retrieved successfully", transport.NewOrganisationView(org))
}

// AddMember handles POST /organisations/:orgId/users. A malformed target
// userId is a client error, not a missing record.
func (h *Handler) AddMember(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	orgID, err := uuid.Parse(c.Param("orgId"))
	if err != nil {
		httpkit.HandleError(c, apperr.NotFound("Organisation not found"))
		return
	}

	var req transport.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		httpkit.HandleError(c, apperr.BadRequest("Client error").WithFields([]apperr.FieldError{
			{Field: "userId", Message: "userId must be a valid UUID"},
		}))
		return
	}

	if err := h.svc.AddMember(c.Request.Context(), identity.UserID(), orgID, targetID); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, "User added to organisation successfully", nil)
}
