package mail

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleSender logs messages instead of delivering them. Used in
// development and whenever no SendGrid key is configured.
type ConsoleSender struct {
	logger *zap.Logger
}

var _ Sender = (*ConsoleSender)(nil)

// NewConsoleSender constructs a logging sender.
func NewConsoleSender(logger *zap.Logger) *ConsoleSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleSender{logger: logger}
}

// Send logs the message at info level.
func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("mail (console)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
