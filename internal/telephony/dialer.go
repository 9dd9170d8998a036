package telephony

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// Dialer originates the outbound briefing call to the configured number.
type Dialer struct {
	client *twilio.RestClient
	from   string
	to     string
	log    *logrus.Logger
}

// NewDialer creates a dialer from Twilio account credentials.
func NewDialer(accountSID, authToken, from, to string, log *logrus.Logger) (*Dialer, error) {
	if accountSID == "" || authToken == "" {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN must be set")
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("twilio from/to numbers not configured")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &Dialer{client: client, from: from, to: to, log: log}, nil
}

// Call places a call to the configured number, directing Twilio to
// fetch its instructions from voiceURL. Returns the call SID.
func (d *Dialer) Call(voiceURL string) (string, error) {
	params := &api.CreateCallParams{}
	params.SetTo(d.to)
	params.SetFrom(d.from)
	params.SetUrl(voiceURL)
	params.SetMethod("POST")

	resp, err := d.client.Api.CreateCall(params)
	if err != nil {
		return "", fmt.Errorf("create call: %w", err)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	d.log.WithFields(logrus.Fields{"sid": sid, "to": d.to}).Info("outbound call placed")
	return sid, nil
}
