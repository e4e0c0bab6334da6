// Package notify provides the outbound email/SMS capabilities. Sends are
// best-effort side channels: callers log failures and never roll back the
// mutation that triggered them.
package notify

import "go.uber.org/zap"

// Mailer sends a single email message.
type Mailer interface {
	SendEmail(to, subject, html string) error
}

// Texter sends a single SMS message.
type Texter interface {
	SendSMS(to, body string) error
}

// logMailer is used when no email credentials are configured: messages are
// logged instead of sent so development environments need no SMTP account.
type logMailer struct {
	log *zap.Logger
}

func (m *logMailer) SendEmail(to, subject, _ string) error {
	m.log.Info("email (dev mode, not sent)",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}

// NewLogMailer returns a Mailer that only logs.
func NewLogMailer(log *zap.Logger) Mailer {
	return &logMailer{log: log}
}

type logTexter struct {
	log *zap.Logger
}

func (t *logTexter) SendSMS(to, body string) error {
	t.log.Info("sms (dev mode, not sent)",
		zap.String("to", to),
		zap.String("body", body),
	)
	return nil
}

// NewLogTexter returns a Texter that only logs.
func NewLogTexter(log *zap.Logger) Texter {
	return &logTexter{log: log}
}
