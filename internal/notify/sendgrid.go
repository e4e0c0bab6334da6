package notify

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type sendgridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

// NewSendGridMailer returns a Mailer backed by the SendGrid API.
func NewSendGridMailer(apiKey, fromName, fromAddress string) Mailer {
	return &sendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromAddress),
	}
}

func (m *sendgridMailer) SendEmail(to, subject, html string) error {
	msg := sgmail.NewSingleEmail(m.from, subject, sgmail.NewEmail("", to), "", html)

	resp, err := m.client.Send(msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// NewMailer picks the SendGrid implementation when an API key is configured
// and the log-only implementation otherwise.
func NewMailer(apiKey, fromName, fromAddress string, log *zap.Logger) Mailer {
	if apiKey == "" {
		return NewLogMailer(log)
	}
	return NewSendGridMailer(apiKey, fromName, fromAddress)
}
