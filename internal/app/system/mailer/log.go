// internal/app/system/mailer/log.go
package mailer

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of delivering them. It is
// meant for development, and keeps the messages so tests can inspect them.
type LogSender struct {
	log *zap.Logger

	mu   sync.Mutex
	sent []Email
}

// NewLogSender creates a LogSender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{log: logger}
}

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, e Email) error {
	s.mu.Lock()
	s.sent = append(s.sent, e)
	s.mu.Unlock()
	s.log.Info("email (log provider)",
		zap.String("kind", e.Kind),
		zap.Strings("to", e.To),
		zap.Strings("cc", e.Cc),
		zap.String("subject", e.Subject))
	return nil
}

// Sent returns a copy of every message sent so far.
func (s *LogSender) Sent() []Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Email(nil), s.sent...)
}
