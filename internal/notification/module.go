// Package notification provides event handlers for sending notifications
// in response to domain events. The module subscribes to events and inverts
// the dependency: domain modules never touch email providers or templates.
package notification

import (
	"context"

	"orgdir_backend/internal/email"
	"orgdir_backend/internal/events"
	"orgdir_backend/platform/logger"
)

// Module reacts to domain events with outbound notifications.
type Module struct {
	sender email.Sender
	log    *logger.Logger
}

// NewModule creates the notification module.
func NewModule(sender email.Sender, log *logger.Logger) *Module {
	return &Module{sender: sender, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.UserRegistered{}.EventName(), m)
	bus.Subscribe(events.MemberAdded{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.UserRegistered:
		return m.handleUserRegistered(ctx, e)
	case events.MemberAdded:
		return m.handleMemberAdded(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleUserRegistered(ctx context.Context, e events.UserRegistered) error {
	if err := m.sender.SendWelcomeEmail(ctx, e.Email, e.FirstName, e.OrganisationName); err != nil {
		// Delivery failures never surface to the registration flow.
		m.log.Error("failed to send welcome email", "email", e.Email, "error", err)
		return err
	}
	m.log.Info("welcome email sent", "email", e.Email)
	return nil
}

func (m *Module) handleMemberAdded(ctx context.Context, e events.MemberAdded) error {
	m.log.Info("member added to organisation",
		"orgId", e.OrgID.String(),
		"userId", e.UserID.String(),
		"addedBy", e.AddedBy.String(),
	)
	return nil
}

var _ events.Handler = (*Module)(nil)
