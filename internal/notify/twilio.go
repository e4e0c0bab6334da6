package notify

import (
	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type twilioTexter struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioTexter returns a Texter backed by the Twilio messaging API.
func NewTwilioTexter(accountSID, authToken, from string) Texter {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &twilioTexter{client: client, from: from}
}

func (t *twilioTexter) SendSMS(to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(body)

	_, err := t.client.Api.CreateMessage(params)
	return err
}

// NewTexter picks the Twilio implementation when credentials are configured
// and the log-only implementation otherwise.
func NewTexter(accountSID, authToken, from string, log *zap.Logger) Texter {
	if accountSID == "" || authToken == "" {
		return NewLogTexter(log)
	}
	return NewTwilioTexter(accountSID, authToken, from)
}
