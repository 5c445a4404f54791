// Package email sends transactional emails. Senders render shared HTML
// templates; delivery backends are interchangeable behind Sender.
package email

import "context"

type Sender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, firstName, organisationName string) error
}

// NoopSender discards every email. Used when SMTP is not configured, so
// registration never fails on mail delivery in development.
type NoopSender struct{}

func (NoopSender) SendWelcomeEmail(ctx context.Context, toEmail, firstName, organisationName string) error {
	return nil
}
