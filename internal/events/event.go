// Package events provides domain event definitions for decoupled
// communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"orgdir_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Accounts Domain Events
// =============================================================================

// UserRegistered is published when a new user successfully registers.
// OrganisationName is the name of the default organisation created
// alongside the account.
type UserRegistered struct {
	BaseEvent
	UserID           uuid.UUID `json:"userId"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	OrganisationName string    `json:"organisationName"`
}

func (e UserRegistered) EventName() string { return "accounts.user.registered" }

// =============================================================================
// Organisations Domain Events
// =============================================================================

// OrganisationCreated is published when an organisation is created, either
// as the default organisation during registration or explicitly.
type OrganisationCreated struct {
	BaseEvent
	OrgID     uuid.UUID `json:"orgId"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"createdBy"`
}

func (e OrganisationCreated) EventName() string { return "orgs.organisation.created" }

// MemberAdded is published when a user is added to an organisation.
type MemberAdded struct {
	BaseEvent
	OrgID   uuid.UUID `json:"orgId"`
	UserID  uuid.UUID `json:"userId"`
	AddedBy uuid.UUID `json:"addedBy"`
}

func (e MemberAdded) EventName() string { return "orgs.member.added" }
