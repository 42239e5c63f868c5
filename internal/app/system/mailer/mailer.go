// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dalemusser/ekaahub/internal/app/system/metrics"
	"github.com/dalemusser/ekaahub/internal/app/system/tasks"
	"go.uber.org/zap"
)

// Email is one outgoing message. Kind labels the message for logs and
// metrics (e.g. "contact_admin").
type Email struct {
	Kind     string
	To       []string
	Cc       []string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender delivers a fully composed Email.
type Sender interface {
	Send(ctx context.Context, e Email) error
}

// ErrNoRecipient is returned when an Email has no To address.
var ErrNoRecipient = errors.New("mailer: no recipient")

// Config selects and configures the transport.
type Config struct {
	Provider     string // "smtp" (default), "resend" or "log"
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	From         string
	FromName     string
	ResendAPIKey string
}

// Mailer normalizes messages, hands them to a Sender and records the
// outcome.
type Mailer struct {
	sender Sender
	log    *zap.Logger
}

// New wraps sender.
func New(sender Sender, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{sender: sender, log: logger}
}

// NewFromConfig builds the transport named by cfg.Provider.
func NewFromConfig(cfg Config, logger *zap.Logger) (*Mailer, error) {
	var s Sender
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "smtp":
		if cfg.SMTPHost == "" {
			return nil, errors.New("mailer: mail_smtp_host is required for the smtp provider")
		}
		s = NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.From, cfg.FromName)
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, errors.New("mailer: resend_api_key is required for the resend provider")
		}
		s = NewResendSender(cfg.ResendAPIKey, cfg.From, cfg.FromName)
	case "log":
		s = NewLogSender(logger)
	default:
		return nil, fmt.Errorf("mailer: unknown provider %q", cfg.Provider)
	}
	return New(s, logger), nil
}

// Send delivers e. Cc entries that are blank, repeated or already in To
// are dropped, and a missing text body is derived from the HTML.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	e.To = cleanAddrs(e.To, nil)
	if len(e.To) == 0 {
		return ErrNoRecipient
	}
	e.Cc = cleanAddrs(e.Cc, e.To)
	if e.TextBody == "" && e.HTMLBody != "" {
		e.TextBody = PlainText(e.HTMLBody)
	}
	kind := e.Kind
	if kind == "" {
		kind = "other"
	}

	if err := m.sender.Send(ctx, e); err != nil {
		metrics.Emails.WithLabelValues(kind, "error").Inc()
		m.log.Warn("email send failed",
			zap.String("kind", kind),
			zap.Strings("to", e.To),
			zap.String("subject", e.Subject),
			zap.Error(err))
		return fmt.Errorf("send %s email: %w", kind, err)
	}
	metrics.Emails.WithLabelValues(kind, "ok").Inc()
	m.log.Info("email sent", zap.String("kind", kind), zap.Strings("to", e.To))
	return nil
}

// Task returns a closure suitable for the background task pool.
func (m *Mailer) Task(e Email) func(context.Context) error {
	return func(ctx context.Context) error {
		return m.Send(ctx, e)
	}
}

// Queue hands e to pool for background delivery and reports whether the
// pool accepted it. A nil pool sends nothing.
func (m *Mailer) Queue(pool *tasks.Pool, e Email) bool {
	if pool == nil {
		return false
	}
	return pool.Submit("email."+e.Kind, m.Task(e))
}

// Dispatch hands e to pool and returns a channel that receives the send
// result once the job has run. ok is false when the pool rejected the job.
func (m *Mailer) Dispatch(pool *tasks.Pool, e Email) (result <-chan error, ok bool) {
	if pool == nil {
		return nil, false
	}
	done := make(chan error, 1)
	send := m.Task(e)
	if !pool.Submit("email."+e.Kind, func(ctx context.Context) error {
		err := send(ctx)
		done <- err
		return err
	}) {
		return nil, false
	}
	return done, true
}

// Delivered waits on a Dispatch result until ctx ends and reports whether
// the message was sent. A nil result is never delivered.
func Delivered(ctx context.Context, result <-chan error) bool {
	if result == nil {
		return false
	}
	select {
	case err := <-result:
		return err == nil
	case <-ctx.Done():
		return false
	}
}

func cleanAddrs(addrs, exclude []string) []string {
	seen := make(map[string]bool, len(addrs)+len(exclude))
	for _, a := range exclude {
		seen[strings.ToLower(a)] = true
	}
	var out []string
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		if a == "" || seen[strings.ToLower(a)] {
			continue
		}
		seen[strings.ToLower(a)] = true
		out = append(out, a)
	}
	return out
}
