package services

import (
	"context"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/config"
	"github.com/KrishnaKumarSoni/krishnakumarsoni-com/internal/utils"
)

// SMSSender abstracts the outbound SMS gateway so the OTP service can
// be exercised without a live Twilio account.
type SMSSender interface {
	Send(ctx context.Context, to, body string) (messageID string, err error)
}

type twilioSMSSender struct {
	client    *twilio.RestClient
	fromPhone string
}

func NewTwilioSMSSender(cfg *config.Config) SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &twilioSMSSender{client: client, fromPhone: cfg.TwilioFromPhone}
}

func (s *twilioSMSSender) Send(ctx context.Context, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.fromPhone)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid != nil {
		return *resp.Sid, nil
	}
	return "", nil
}

// dryRunSMSSender logs instead of sending. Local development only.
type dryRunSMSSender struct{}

func NewDryRunSMSSender() SMSSender {
	return dryRunSMSSender{}
}

func (dryRunSMSSender) Send(_ context.Context, to, body string) (string, error) {
	utils.Logger.Infof("[sms dry-run] to=%s body=%q", to, body)
	return "dry-run", nil
}
