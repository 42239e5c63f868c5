// internal/app/system/mailer/resend.go
package mailer

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers through the Resend HTTP API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender for apiKey.
func NewResendSender(apiKey, from, fromName string) *ResendSender {
	addr := mail.Address{Name: fromName, Address: from}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   addr.String(),
	}
}

// Send implements Sender.
func (s *ResendSender) Send(ctx context.Context, e Email) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      e.To,
		Cc:      e.Cc,
		Subject: e.Subject,
		Html:    e.HTMLBody,
		Text:    e.TextBody,
	}
	if e.ReplyTo != "" {
		params.ReplyTo = e.ReplyTo
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}
