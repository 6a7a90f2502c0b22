// Package mail delivers the account-validation message. The orchestrator only
// sees the Mailer interface; the SMTP client lives behind it.
package mail

import "context"

// Mailer sends a message with both a plain-text and an HTML body.
type Mailer interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}
