// internal/app/system/mailer/smtp.go
package mailer

import (
	"context"

	"github.com/dalemusser/waffle/pantry/email"
)

// SMTPSender delivers through an SMTP relay (SES or the provider's relay in
// production) using the waffle email sender.
type SMTPSender struct {
	sender *email.Sender
}

// NewSMTPSender creates a sender. Auth is skipped when user is empty.
// Port 465 uses implicit TLS, every other port requires STARTTLS.
func NewSMTPSender(host string, port int, user, pass, from, fromName string) *SMTPSender {
	return &SMTPSender{sender: email.NewSender(email.Config{
		Host:        host,
		Port:        port,
		Username:    user,
		Password:    pass,
		FromAddress: from,
		FromName:    fromName,
		UseSSL:      port == 465,
	})}
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, e Email) error {
	return s.sender.Send(ctx, toMessage(e))
}

// toMessage maps e onto the waffle message. That message has no Cc header,
// so Cc addresses are delivered as additional To recipients.
func toMessage(e Email) email.Message {
	to := make([]string, 0, len(e.To)+len(e.Cc))
	to = append(to, e.To...)
	to = append(to, e.Cc...)
	return email.Message{
		To:       to,
		Subject:  e.Subject,
		TextBody: e.TextBody,
		HTMLBody: e.HTMLBody,
		ReplyTo:  e.ReplyTo,
	}
}
